package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// Registry manages the registration and discovery of shipit commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s is already registered", name)
	}

	r.commands[name] = cmd
	return nil
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all registered command names in alphabetical order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachToRoot attaches all registered commands to the provided root command.
// Commands that do not require configuration run even when it fails validation.
func (r *Registry) AttachToRoot(rootCmd *cobra.Command) error {
	for _, name := range r.List() {
		cmd := r.commands[name]
		cobraCmd := cmd.Command()
		if cobraCmd == nil {
			return fmt.Errorf("command %s returned nil cobra.Command", name)
		}

		if !cmd.RequiresConfig() {
			markConfigOptional(cobraCmd)
		}
		rootCmd.AddCommand(cobraCmd)
	}
	return nil
}

// builtin pairs a command name with its constructor and config requirement.
type builtin struct {
	name           string
	newCmd         func() *cobra.Command
	requiresConfig bool
}

var builtins = []builtin{
	{"deploy", NewDeployCmd, true},
	{"validate", NewValidateCmd, true},
	{"setup", NewSetupCmd, true},
	{"status", NewStatusCmd, true},
	{"log", NewLogCmd, true},
	{"pull", NewPullCmd, true},
	{"config", NewConfigCmd, false},
}

// RegisterBuiltinCommands registers all built-in shipit commands with r.
func RegisterBuiltinCommands(r *Registry) error {
	for _, b := range builtins {
		cmd := NewBaseCommand(b.name, b.newCmd(), b.requiresConfig)
		if err := r.Register(cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", b.name, err)
		}
	}

	return nil
}
