package commands

import "github.com/sqve/shipit/internal/git"

// CommanderProvider manages git commander instances for commands.
// This provides better dependency injection and testability.
type CommanderProvider struct {
	commander git.Commander
}

// NewCommanderProvider creates a new CommanderProvider with the default git commander.
func NewCommanderProvider() *CommanderProvider {
	return &CommanderProvider{
		commander: git.DefaultCommander,
	}
}

// NewCommanderProviderWithCommander creates a new CommanderProvider with a custom commander.
// This is primarily used for testing.
func NewCommanderProviderWithCommander(commander git.Commander) *CommanderProvider {
	return &CommanderProvider{
		commander: commander,
	}
}

// OpenRepository opens the repository containing dir with the configured commander.
func (cp *CommanderProvider) OpenRepository(dir string) (*git.Repository, error) {
	return git.Open(dir, cp.commander)
}

// Global commander provider instance for commands.
// This can be replaced for testing or different commander configurations.
var DefaultCommanderProvider = NewCommanderProvider()

// SetCommanderProvider sets the global commander provider.
// This is primarily used for testing.
func SetCommanderProvider(provider *CommanderProvider) {
	DefaultCommanderProvider = provider
}

// ResetCommanderProvider resets the global commander provider to default.
// This is primarily used for testing cleanup.
func ResetCommanderProvider() {
	DefaultCommanderProvider = NewCommanderProvider()
}
