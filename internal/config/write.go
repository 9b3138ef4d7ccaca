package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Template returns a config skeleton for `swiftpush init`.
func Template() *Config {
	insecure := true
	return &Config{
		Swift: &SwiftConfig{
			AuthURL:        "https://auth.example.com:5000/v2.0/tokens",
			TenantName:     "tenant",
			Username:       "username",
			Password:       "change-me",
			Bucket:         "assets",
			TimeoutSeconds: 60,
			TLS:            &TLSConfig{InsecureSkipVerify: &insecure},
		},
		Sync: &SyncConfig{
			Prefix:  "",
			Exclude: []string{"*.map", ".DS_Store"},
		},
		Log: &LogConfig{Level: "info", Format: LogFormatText},
	}
}
