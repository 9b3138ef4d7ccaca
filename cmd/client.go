package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"SwiftPush/internal/config"
	"SwiftPush/internal/logging"
	"SwiftPush/internal/swift"
)

func loadConfig(checkPerms bool) (*config.Config, error) {
	v, err := config.Load(checkPerms)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	logCfg := config.LogConfig{}
	if cfg.Log != nil {
		logCfg = *cfg.Log
	}
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	return logging.New(&logCfg, cmd.ErrOrStderr())
}

func newConnection(cfg *config.Config, log logrus.FieldLogger) (*swift.Connection, error) {
	s := cfg.Swift
	opts := swift.TransportOptions{InsecureSkipVerify: config.InsecureSkipVerify(s)}
	if s.TLS != nil {
		opts.CAFile = s.TLS.CAFile
	}
	if s.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(s.TimeoutSeconds) * time.Second
	}
	transport, err := swift.NewHTTPTransport(opts)
	if err != nil {
		return nil, fmt.Errorf("swift transport: %w", err)
	}
	return swift.NewConnection(swift.Credentials{
		TenantName: s.TenantName,
		Username:   s.Username,
		Password:   s.Password,
		AuthURL:    s.AuthURL,
		Bucket:     s.Bucket,
	}, swift.ConnectionOptions{Transport: transport, Logger: log}), nil
}

// setup loads config, builds the logger and returns an authenticated
// connection.
func setup(ctx context.Context, cmd *cobra.Command) (*config.Config, *logrus.Logger, *swift.Connection, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := newConnection(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := conn.Connect(ctx); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, conn, nil
}
