package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sqve/shipit/internal/commands"
	"github.com/sqve/shipit/internal/completion"
	"github.com/sqve/shipit/internal/config"
	"github.com/sqve/shipit/internal/logger"
)

const Version = "v0.1.0"

// NewRootCommand creates and configures the shipit root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "shipit",
		Short:   "Validate, commit and push a project in one step",
		Version: Version,
		Long: `shipit checks that a project's Python sources parse, commits whatever is
pending and pushes it, optionally authenticating with a token kept in a local
git-ignored credential file.

Run 'shipit setup <token>' once, then deploy with 'shipit deploy [message]'
or the generated wrapper script.`,
		SilenceUsage: true,
	}

	setupRootCommand(rootCmd)
	return rootCmd
}

// setupRootCommand configures flags, commands, and initialization for the root command
func setupRootCommand(rootCmd *cobra.Command) {
	// Disable automatic error printing to avoid duplicate error messages
	rootCmd.SilenceErrors = true

	setupFlags(rootCmd)
	setupInitialization(rootCmd)
	registerCommands(rootCmd)
	setupCompletion(rootCmd)
}

// setupFlags adds persistent flags to the root command
func setupFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (shorthand for --log-level=debug)")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable colors and symbols")
}

// setupInitialization configures cobra initialization callback
func setupInitialization(rootCmd *cobra.Command) {
	cobra.OnInitialize(func() { InitializeConfig(rootCmd) })
}

// registerCommands adds all subcommands to the root command
func registerCommands(rootCmd *cobra.Command) {
	registry := commands.NewRegistry()
	if err := commands.RegisterBuiltinCommands(registry); err != nil {
		panic(err)
	}
	if err := registry.AttachToRoot(rootCmd); err != nil {
		panic(err)
	}
}

// setupCompletion configures shell completion for the root command
func setupCompletion(rootCmd *cobra.Command) {
	completion.CreateCompletionCommands(rootCmd)
	completion.RegisterCompletionFunctions(rootCmd)
}

// InitializeConfig initializes application configuration and logging
func InitializeConfig(rootCmd *cobra.Command) {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	bindFlags(rootCmd)
	configurePresentation(rootCmd)
	configureLogging(rootCmd)
}

// bindFlags binds cobra flags to viper configuration
func bindFlags(rootCmd *cobra.Command) {
	if err := viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-level flag: %v\n", err)
	}
	if err := viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-format flag: %v\n", err)
	}
}

// configurePresentation applies plain mode from the environment, config and flags
func configurePresentation(rootCmd *cobra.Command) {
	config.LoadFromEnv()

	if plain, _ := rootCmd.PersistentFlags().GetBool("plain"); plain || config.GetBool("general.plain") {
		config.Global.Plain = true
	}
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		config.Global.Debug = true
	}
}

// configureLogging sets up application logging based on flags and configuration
func configureLogging(rootCmd *cobra.Command) {
	if config.IsDebug() {
		viper.Set("logging.level", "debug")
	}

	loggerConfig := logger.Config{
		Level:  config.GetString("logging.level"),
		Format: config.GetString("logging.format"),
		Output: os.Stderr,
	}

	logger.Configure(loggerConfig)
}
