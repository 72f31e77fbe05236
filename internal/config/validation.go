package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate validates the current configuration
func Validate() error {
	cfg, err := Get()
	if err != nil {
		return fmt.Errorf("failed to get config for validation: %w", err)
	}

	return ValidateConfig(cfg)
}

// ValidateConfig validates a configuration struct
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateDeploy(&cfg.Deploy)...)
	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateSetup(&cfg.Setup)...)
	errs = append(errs, validateSources(&cfg.Validate)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDeploy(cfg *DeployConfig) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.Branch) == "" {
		errs = append(errs, ValidationError{Field: "deploy.branch", Value: cfg.Branch, Message: "branch cannot be empty"})
	}

	if strings.TrimSpace(cfg.Remote) == "" {
		errs = append(errs, ValidationError{Field: "deploy.remote", Value: cfg.Remote, Message: "remote cannot be empty"})
	}

	if !envNamePattern.MatchString(cfg.TokenEnv) {
		errs = append(errs, ValidationError{Field: "deploy.token_env", Value: cfg.TokenEnv, Message: "must be a valid environment variable name"})
	}

	if cfg.RepositoryURL != "" {
		u, err := url.Parse(cfg.RepositoryURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			errs = append(errs, ValidationError{Field: "deploy.repository_url", Value: cfg.RepositoryURL, Message: "must be an http(s) URL"})
		} else if u.User != nil {
			errs = append(errs, ValidationError{Field: "deploy.repository_url", Value: u.Redacted(), Message: "must not embed credentials"})
		}
	}

	return errs
}

func validateGit(cfg *GitConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.PushTimeout < 0 {
		errs = append(errs, ValidationError{Field: "git.push_timeout", Value: cfg.PushTimeout, Message: "push timeout cannot be negative"})
	}

	return errs
}

func validateSetup(cfg *SetupConfig) ValidationErrors {
	var errs ValidationErrors

	for field, value := range map[string]string{
		"setup.env_file":  cfg.EnvFile,
		"setup.wrapper":   cfg.Wrapper,
		"setup.gitignore": cfg.Gitignore,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Value: value, Message: "cannot be empty"})
			continue
		}
		if filepath.IsAbs(value) || strings.Contains(filepath.ToSlash(value), "..") {
			errs = append(errs, ValidationError{Field: field, Value: value, Message: "must be a path inside the repository"})
		}
	}

	// Keep output stable regardless of map iteration order.
	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })

	return errs
}

func validateSources(cfg *SourcesConfig) ValidationErrors {
	var errs ValidationErrors

	if len(cfg.Files) == 0 {
		errs = append(errs, ValidationError{Field: "validate.files", Value: cfg.Files, Message: "at least one source file is required"})
	}

	for _, file := range cfg.Files {
		if filepath.Ext(file) != ".py" {
			errs = append(errs, ValidationError{Field: "validate.files", Value: file, Message: "only .py files can be syntax-checked"})
		}
	}

	for _, rule := range cfg.Expect {
		if rule.File == "" {
			errs = append(errs, ValidationError{Field: "validate.expect", Value: rule, Message: "rule needs a file"})
		}
	}

	for _, name := range cfg.Env {
		if !envNamePattern.MatchString(name) {
			errs = append(errs, ValidationError{Field: "validate.env", Value: name, Message: "must be a valid environment variable name"})
		}
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	validLevels := ValidLogLevels()
	if !slices.Contains(validLevels, cfg.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", validLevels),
		})
	}

	validFormats := ValidLogFormats()
	if !slices.Contains(validFormats, cfg.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("must be one of: %v", validFormats),
		})
	}

	return errs
}
