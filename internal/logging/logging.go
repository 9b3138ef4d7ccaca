package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"SwiftPush/internal/config"
)

// New builds a logger from the log section of the config. A nil section gives
// an info-level text logger.
func New(cfg *config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(out)

	level := logrus.InfoLevel
	format := config.LogFormatText
	if cfg != nil {
		if cfg.Level != "" {
			lv, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
			if err != nil {
				return nil, fmt.Errorf("log level: %w", err)
			}
			level = lv
		}
		if cfg.Format != "" {
			format = cfg.Format
		}
	}
	l.SetLevel(level)

	switch format {
	case config.LogFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	return l, nil
}
