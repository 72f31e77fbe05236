package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBranch        = "main"
	DefaultRemote        = "origin"
	DefaultTokenEnv      = "GITHUB_TOKEN"
	DefaultMessagePrefix = "Auto-deploy"
	DefaultEnvFile       = ".env.deploy"
	DefaultWrapper       = "deploy.sh"
	DefaultGitignore     = ".gitignore"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.plain", false)

	v.SetDefault("deploy.branch", DefaultBranch)
	v.SetDefault("deploy.remote", DefaultRemote)
	v.SetDefault("deploy.token_env", DefaultTokenEnv)
	v.SetDefault("deploy.repository_url", "")
	v.SetDefault("deploy.message_prefix", DefaultMessagePrefix)

	v.SetDefault("git.push_timeout", time.Duration(0))

	v.SetDefault("setup.env_file", DefaultEnvFile)
	v.SetDefault("setup.wrapper", DefaultWrapper)
	v.SetDefault("setup.gitignore", DefaultGitignore)

	v.SetDefault("validate.files", []string{"langchain_tools.py", "langchain_agents.py", "app.py"})
	v.SetDefault("validate.config_files", []string{"requirements.txt", "app.yaml"})
	v.SetDefault("validate.expect", []map[string]interface{}{
		{"file": "langchain_tools.py", "classes": []string{"GenieQueryTool", "ResponseEnhancementTool", "SQLQueryTool"}},
		{"file": "langchain_agents.py", "classes": []string{"BusinessIntelligenceAgent", "VisualizationAgent"}},
	})
	v.SetDefault("validate.env", []string{})

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// DefaultConfig returns the settings shipit uses when nothing is configured.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; this only fails if the struct tags drift.
		panic("config: invalid defaults: " + err.Error())
	}
	return &cfg
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}
