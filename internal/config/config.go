package config

import (
	"os"
	"time"
)

// Global holds process-wide presentation switches
var Global struct {
	Plain bool // Disable colors and symbols
	Debug bool // Enable debug logging
}

// IsPlain returns true if plain output mode is enabled
func IsPlain() bool {
	return Global.Plain
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return Global.Debug
}

// LoadFromEnv loads presentation switches from environment variables
func LoadFromEnv() {
	if isTruthy(os.Getenv("SHIPIT_PLAIN")) || os.Getenv("NO_COLOR") != "" {
		Global.Plain = true
	}
	if isTruthy(os.Getenv("SHIPIT_DEBUG")) {
		Global.Debug = true
	}
}

func isTruthy(value string) bool {
	switch value {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}

// Config is the typed view of all shipit settings.
type Config struct {
	General  GeneralConfig `mapstructure:"general" toml:"general"`
	Deploy   DeployConfig  `mapstructure:"deploy" toml:"deploy"`
	Git      GitConfig     `mapstructure:"git" toml:"git"`
	Setup    SetupConfig   `mapstructure:"setup" toml:"setup"`
	Validate SourcesConfig `mapstructure:"validate" toml:"validate"`
	Logging  LoggingConfig `mapstructure:"logging" toml:"logging"`
}

type GeneralConfig struct {
	Plain bool `mapstructure:"plain" toml:"plain"`
}

type DeployConfig struct {
	Branch        string `mapstructure:"branch" toml:"branch"`
	Remote        string `mapstructure:"remote" toml:"remote"`
	TokenEnv      string `mapstructure:"token_env" toml:"token_env"`
	RepositoryURL string `mapstructure:"repository_url" toml:"repository_url"`
	MessagePrefix string `mapstructure:"message_prefix" toml:"message_prefix"`
}

type GitConfig struct {
	// PushTimeout bounds the single push attempt; zero waits forever.
	PushTimeout time.Duration `mapstructure:"push_timeout" toml:"push_timeout"`
}

type SetupConfig struct {
	EnvFile   string `mapstructure:"env_file" toml:"env_file"`
	Wrapper   string `mapstructure:"wrapper" toml:"wrapper"`
	Gitignore string `mapstructure:"gitignore" toml:"gitignore"`
}

// ExpectRule lists classes a source file is expected to define.
type ExpectRule struct {
	File    string   `mapstructure:"file" toml:"file"`
	Classes []string `mapstructure:"classes" toml:"classes"`
}

type SourcesConfig struct {
	Files       []string     `mapstructure:"files" toml:"files"`
	ConfigFiles []string     `mapstructure:"config_files" toml:"config_files"`
	Expect      []ExpectRule `mapstructure:"expect" toml:"expect"`
	Env         []string     `mapstructure:"env" toml:"env"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}
