package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SWIFTPUSH"

// envKeys are bound explicitly so that an environment variable fills a key
// the file leaves out. AutomaticEnv alone only overrides keys already present.
var envKeys = []string{
	"swift.auth_url",
	"swift.tenant_name",
	"swift.username",
	"swift.password",
	"swift.bucket",
	"swift.timeout_seconds",
	"swift.tls.insecure_skip_verify",
	"swift.tls.ca_file",
	"sync.prefix",
	"sync.state_dir",
	"notifications.enabled",
	"notifications.discord.enabled",
	"notifications.discord.webhook_url",
	"log.level",
	"log.format",
}

// Load reads the YAML config. Environment variables such as
// SWIFTPUSH_SWIFT_PASSWORD override file values or supply keys the file omits.
func Load(checkPerms bool) (*viper.Viper, error) {
	path := ResolveConfigPath()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if checkPerms {
		if err := checkConfigPermissions(path); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return v, nil
}

func checkConfigPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mode := info.Mode().Perm()

	if mode&0077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %s (recommended: 0600)", path, mode)
	}
	return nil
}
