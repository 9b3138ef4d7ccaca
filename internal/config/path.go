package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigName = "config.yaml"
	DefaultStateDir   = "/var/cache/swiftpush"
)

const EnvConfigPath = "SWIFTPUSH_CONFIG"

func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "swiftpush")
	}
	return "/etc/swiftpush"
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), DefaultConfigName)
}

func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}

// StateDir returns the directory for sync state and lock files.
func StateDir(s *SyncConfig) string {
	if s != nil && s.StateDir != "" {
		return s.StateDir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "swiftpush")
	}
	return DefaultStateDir
}
