package completion

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/commands"
	"github.com/sqve/shipit/internal/logger"
)

func FilterCompletions(completions []string, toComplete string) []string {
	if toComplete == "" {
		return completions
	}

	var filtered []string
	for _, completion := range completions {
		if strings.HasPrefix(completion, toComplete) {
			filtered = append(filtered, completion)
		}
	}

	return filtered
}

func CreateCompletionCommands(rootCmd *cobra.Command) {
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `Generate completion script for the shipit CLI.

To enable completion, run the appropriate command for your shell:

Bash:
  shipit completion bash > /etc/bash_completion.d/shipit
  # or
  shipit completion bash > ~/.bash_completion.d/shipit

Zsh:
  shipit completion zsh > "${fpath[1]}/_shipit"
  # or add to ~/.zshrc:
  echo 'autoload -U compinit; compinit' >> ~/.zshrc

Fish:
  shipit completion fish > ~/.config/fish/completions/shipit.fish

PowerShell:
  shipit completion powershell > shipit.ps1
  # then source it in your profile`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			switch shell {
			case "bash":
				return rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell: %s", shell)
			}
		},
	}

	rootCmd.AddCommand(completionCmd)
}

func RegisterCompletionFunctions(rootCmd *cobra.Command) {
	for _, cmd := range rootCmd.Commands() {
		switch cmd.Name() {
		case "validate":
			registerValidateCompletions(cmd)
		case "config":
			registerConfigCompletions(cmd)
		}
	}
}

func registerValidateCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("dir", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})
}

func registerConfigCompletions(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		if sub.Name() != "get" {
			continue
		}
		sub.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return ConfigKeyCompletion(toComplete)
		}
	}
}

// ConfigKeyCompletion completes dotted configuration keys.
func ConfigKeyCompletion(toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeExecuteWithFallback(func() ([]string, cobra.ShellCompDirective) {
		keys := FilterCompletions(commands.ConfigKeys(), toComplete)
		logger.WithComponent("config_completion").Debug("config key completion results", "filtered", len(keys), "input", toComplete)
		return keys, cobra.ShellCompDirectiveNoFileComp
	}, nil)
}

func SafeExecuteWithFallback(fn func() ([]string, cobra.ShellCompDirective), fallback []string) (result []string, directive cobra.ShellCompDirective) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("completion").Debug("completion function panicked", "error", r)
			result = fallback
			directive = cobra.ShellCompDirectiveError
		}
	}()

	result, directive = fn()

	if len(result) == 0 {
		return fallback, directive
	}
	return result, directive
}
