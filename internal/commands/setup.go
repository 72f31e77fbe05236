package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/setup"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd() *cobra.Command {
	var forceWrapper bool

	cmd := &cobra.Command{
		Use:   "setup [token]",
		Short: "Store a deploy token and generate the wrapper script",
		Long: `Write the access token to the credential file (setup.env_file), make sure
git ignores it, and generate an executable wrapper (setup.wrapper) that loads
the token and runs shipit deploy.

The token is taken from the argument or, when omitted, from the token
variable (deploy.token_env). Rerunning replaces the stored token.

Examples:
  shipit setup ghp_xxxxxxxxxxxx   # Store the given token
  GITHUB_TOKEN=ghp_xxx shipit setup
  ./deploy.sh "Release notes"     # Deploy through the wrapper`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			}
			return runSetup(cmd, token, forceWrapper)
		},
	}

	cmd.Flags().BoolVar(&forceWrapper, "force-wrapper", false, "Replace a wrapper script shipit did not generate")

	return cmd
}

func runSetup(cmd *cobra.Command, token string, forceWrapper bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	_, err = setup.New(nil, cc.Config, cc.Printer).Run(setup.Options{
		Dir:          cc.Dir,
		Token:        token,
		ForceWrapper: forceWrapper,
		Binary:       executablePath(),
	})
	return err
}

func executablePath() string {
	path, err := os.Executable()
	if err != nil {
		return "shipit"
	}
	return path
}
