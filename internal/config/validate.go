package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidURL   = errors.New("invalid url")
	ErrInvalidValue = errors.New("invalid value")
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Swift == nil {
		return fmt.Errorf("%w: swift", ErrMissingField)
	}
	s := cfg.Swift
	required := []struct {
		name, value string
	}{
		{"swift.auth_url", s.AuthURL},
		{"swift.tenant_name", s.TenantName},
		{"swift.username", s.Username},
		{"swift.password", s.Password},
		{"swift.bucket", s.Bucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, r.name)
		}
	}
	u, err := url.Parse(s.AuthURL)
	if err != nil {
		return fmt.Errorf("%w: swift.auth_url: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: swift.auth_url must be an absolute http(s) url, got %q", ErrInvalidURL, s.AuthURL)
	}
	if strings.Contains(s.Bucket, "/") {
		return fmt.Errorf("%w: swift.bucket must not contain '/': %q", ErrInvalidValue, s.Bucket)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: swift.timeout_seconds must not be negative", ErrInvalidValue)
	}

	if cfg.Sync != nil {
		cfg.Sync.Prefix = NormalizePrefix(cfg.Sync.Prefix)
	}

	if cfg.Log != nil {
		switch cfg.Log.Format {
		case "", LogFormatText, LogFormatJSON:
		default:
			return fmt.Errorf("%w: log.format must be %q or %q, got %q", ErrInvalidValue, LogFormatText, LogFormatJSON, cfg.Log.Format)
		}
	}
	return nil
}
