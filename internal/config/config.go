package config

import (
	"github.com/spf13/viper"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	Swift         *SwiftConfig         `mapstructure:"swift" yaml:"swift"`
	Sync          *SyncConfig          `mapstructure:"sync" yaml:"sync,omitempty"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
	Log           *LogConfig           `mapstructure:"log" yaml:"log,omitempty"`
}

type SwiftConfig struct {
	AuthURL        string     `mapstructure:"auth_url" yaml:"auth_url"`
	TenantName     string     `mapstructure:"tenant_name" yaml:"tenant_name"`
	Username       string     `mapstructure:"username" yaml:"username"`
	Password       string     `mapstructure:"password" yaml:"password"`
	Bucket         string     `mapstructure:"bucket" yaml:"bucket"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	TLS            *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify *bool  `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
	CAFile             string `mapstructure:"ca_file" yaml:"ca_file,omitempty"`
}

type SyncConfig struct {
	Prefix   string   `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Exclude  []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	StateDir string   `mapstructure:"state_dir" yaml:"state_dir,omitempty"`
}

type NotificationsConfig struct {
	Enabled bool           `mapstructure:"enabled" yaml:"enabled"`
	Discord *DiscordConfig `mapstructure:"discord" yaml:"discord,omitempty"`
}

type DiscordConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL     string        `mapstructure:"webhook_url" yaml:"webhook_url"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Events         []string      `mapstructure:"events" yaml:"events,omitempty"`
	Retry          *DiscordRetry `mapstructure:"retry" yaml:"retry,omitempty"`
}

type DiscordRetry struct {
	Attempts  int `mapstructure:"attempts" yaml:"attempts"`
	BackoffMs int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// InsecureSkipVerify defaults to true when unset, which keeps older configs
// working against self-signed auth endpoints.
func InsecureSkipVerify(s *SwiftConfig) bool {
	if s == nil || s.TLS == nil || s.TLS.InsecureSkipVerify == nil {
		return true
	}
	return *s.TLS.InsecureSkipVerify
}

func NotificationsEnabled(n *NotificationsConfig) bool {
	return n != nil && n.Enabled
}
