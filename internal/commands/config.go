package commands

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/logger"
)

// NewConfigCmd creates the main config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shipit configuration",
		Long: `Manage shipit configuration settings.

Available configuration sections:
  deploy    - Primary branch, remote, token variable and commit message prefix
  git       - Push timeout
  setup     - Credential file, wrapper script and gitignore names
  validate  - Python sources, auxiliary files, expected classes and variables
  logging   - Logging level and format

Examples:
  shipit config list                  # Show all configuration
  shipit config get deploy.branch     # Get a specific value
  shipit config validate              # Validate current configuration
  shipit config path                  # Show config file paths
  shipit config init --project        # Write .shipit.toml with defaults`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

// newConfigGetCmd creates the config get subcommand.
func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value by key.

Examples:
  shipit config get deploy.branch
  shipit config get git.push_timeout
  shipit config get validate.files`,
		Args: cobra.ExactArgs(1),
		RunE: runConfigGet,
	}

	cmd.Flags().Bool("default", false, "Show the default value instead of the current value")

	return cmd
}

// newConfigListCmd creates the config list subcommand.
func newConfigListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Examples:
  shipit config list                 # Show all configuration in text format
  shipit config list --format=json   # Show all configuration in JSON format
  shipit config list --format=toml   # Show all configuration as a config file`,
		Args: cobra.NoArgs,
		RunE: runConfigList,
	}

	cmd.Flags().String("format", "text", "Output format (text, json, toml)")
	cmd.Flags().Bool("defaults", false, "Show default values instead of current values")

	return cmd
}

// newConfigValidateCmd creates the config validate subcommand.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the current configuration",
		Long: `Validate the current configuration and report any errors.

This command checks all configuration values against their validation rules
and reports any issues found.`,
		Args: cobra.NoArgs,
		RunE: runConfigValidate,
	}
}

// newConfigPathCmd creates the config path subcommand.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Long: `Show the paths where shipit looks for configuration files.

This includes the currently used config file (if any) and all search paths.`,
		Args: cobra.NoArgs,
		RunE: runConfigPath,
	}
}

// newConfigInitCmd creates the config init subcommand.
func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create a configuration file with all default values.

By default the file is created in the user's config directory. With
--project it is created as .shipit.toml in the current directory.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().Bool("project", false, "Write .shipit.toml in the current directory")

	return cmd
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("config_get")
	key := args[0]

	log.Debug("getting configuration value", "key", key)

	if !isValidKey(key) {
		return shiperrors.ErrConfigInvalid("unknown key "+key, nil)
	}

	cfg := config.DefaultConfig()
	if showDefault, _ := cmd.Flags().GetBool("default"); !showDefault {
		cc, err := NewCommandContext(cmd)
		if err != nil {
			return err
		}
		cfg = cc.Config
	}

	value, _ := lookupKey(structToMap(cfg), key)
	fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("config_list")

	format, _ := cmd.Flags().GetString("format")
	showDefaults, _ := cmd.Flags().GetBool("defaults")

	log.Debug("listing configuration", "format", format, "show_defaults", showDefaults)

	cfg := config.DefaultConfig()
	if !showDefaults {
		cc, err := NewCommandContext(cmd)
		if err != nil {
			return err
		}
		cfg = cc.Config
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(structToMap(cfg), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	case "text":
		printConfigText(cmd, structToMap(cfg))
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, toml)", format)
	}

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	logger.WithComponent("config_validate").Debug("validating configuration")

	if err := config.Validate(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration validation failed:\n%v\n", err)
		return shiperrors.ErrConfigInvalid("configuration is invalid", nil)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	logger.WithComponent("config_path").Debug("showing configuration paths")

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration file search paths:")
	for i, path := range config.GetConfigPaths() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", i+1, path)
	}

	if used := config.ConfigFileUsed(); used != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nCurrently used config file:\n  %s\n", used)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\nNo config file found, using defaults\n")
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("config_init")

	force, _ := cmd.Flags().GetBool("force")
	project, _ := cmd.Flags().GetBool("project")

	path := config.GetDefaultConfigPath()
	if project {
		path = config.ProjectFileName
	}

	log.Debug("initializing configuration file", "path", path, "force", force)

	if err := config.WriteDefaultFile(path, force); err != nil {
		return shiperrors.ErrFileSystem("write config", err).WithContext("path", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", path)
	return nil
}

// ConfigKeys returns every dotted key of the default configuration.
func ConfigKeys() []string {
	var keys []string
	for section, values := range structToMap(config.DefaultConfig()) {
		fields, ok := values.(map[string]interface{})
		if !ok {
			continue
		}
		for field := range fields {
			keys = append(keys, section+"."+field)
		}
	}
	sort.Strings(keys)
	return keys
}

func isValidKey(key string) bool {
	_, ok := lookupKey(structToMap(config.DefaultConfig()), key)
	return ok
}

// lookupKey resolves a "section.field" key in a map produced by structToMap.
func lookupKey(data map[string]interface{}, key string) (interface{}, bool) {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return nil, false
	}

	fields, ok := data[section].(map[string]interface{})
	if !ok {
		return nil, false
	}

	value, ok := fields[field]
	return value, ok
}

// structToMap converts a struct to a map keyed by mapstructure tags.
func structToMap(obj interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		tag := fieldType.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(fieldType.Name)
		}

		if field.Kind() == reflect.Struct {
			result[tag] = structToMap(field.Interface())
		} else {
			result[tag] = field.Interface()
		}
	}

	return result
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []config.ExpectRule:
		parts := make([]string, 0, len(v))
		for _, rule := range v {
			parts = append(parts, rule.File+": "+strings.Join(rule.Classes, ", "))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// printConfigText prints configuration in a readable text format.
func printConfigText(cmd *cobra.Command, data map[string]interface{}) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, section := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", section)
		if sectionData, ok := data[section].(map[string]interface{}); ok {
			sectionKeys := make([]string, 0, len(sectionData))
			for k := range sectionData {
				sectionKeys = append(sectionKeys, k)
			}
			sort.Strings(sectionKeys)

			for _, key := range sectionKeys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", key, formatValue(sectionData[key]))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}
