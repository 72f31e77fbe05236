package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/ui"
)

// Command represents a shipit command that can be registered with the command registry.
type Command interface {
	// Name returns the command name (e.g., "deploy", "config", "status").
	Name() string

	// Command returns the cobra.Command instance for this command.
	Command() *cobra.Command

	// RequiresConfig indicates whether this command requires configuration to be initialized.
	RequiresConfig() bool
}

// BaseCommand provides common functionality for all shipit commands.
type BaseCommand struct {
	name           string
	cmd            *cobra.Command
	requiresConfig bool
}

// NewBaseCommand creates a new BaseCommand with the given parameters.
func NewBaseCommand(name string, cmd *cobra.Command, requiresConfig bool) *BaseCommand {
	return &BaseCommand{
		name:           name,
		cmd:            cmd,
		requiresConfig: requiresConfig,
	}
}

// Name returns the command name.
func (b *BaseCommand) Name() string {
	return b.name
}

// Command returns the cobra.Command instance.
func (b *BaseCommand) Command() *cobra.Command {
	return b.cmd
}

// RequiresConfig indicates whether this command requires configuration.
func (b *BaseCommand) RequiresConfig() bool {
	return b.requiresConfig
}

const configOptionalAnnotation = "shipit.config-optional"

func markConfigOptional(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[configOptionalAnnotation] = "true"
}

// requiresValidConfig reports whether cmd or one of its parents was
// registered as needing a valid configuration.
func requiresValidConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[configOptionalAnnotation] == "true" {
			return false
		}
	}
	return true
}

// CommandContext provides shared context and utilities for command execution.
type CommandContext struct {
	Config  *config.Config
	Printer *ui.Printer
	Dir     string
}

// NewCommandContext resolves the configuration, validates it unless the
// command was registered without requiring it, and binds a printer to the
// command's output streams.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, shiperrors.ErrConfigInvalid("decode", err)
	}
	if requiresValidConfig(cmd) {
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, shiperrors.ErrConfigInvalid("validate", err)
		}
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, shiperrors.ErrFileSystem("get current directory", err)
	}

	return &CommandContext{
		Config:  cfg,
		Printer: ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Dir:     dir,
	}, nil
}

// Interactive reports whether the command writes to a terminal.
func (ctx *CommandContext) Interactive(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && !config.IsPlain() && ui.IsTerminal(f)
}
