package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Initialize wires defaults, environment variables and the config file into
// the global viper instance.
func Initialize() error {
	SetDefaults()

	viper.SetEnvPrefix("SHIPIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := FindConfigFile()
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return nil
}

// Reset clears all configuration state. Intended for tests.
func Reset() {
	viper.Reset()
	Global.Plain = false
	Global.Debug = false
	SetDefaults()
}

// Get returns the fully resolved configuration.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the config file read by Initialize, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

func GetString(key string) string {
	return viper.GetString(key)
}

func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

func GetBool(key string) bool {
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func Set(key string, value interface{}) {
	viper.Set(key, value)
}

func IsSet(key string) bool {
	return viper.IsSet(key)
}

// AllSettings returns every resolved key, nested by section.
func AllSettings() map[string]interface{} {
	return viper.AllSettings()
}
