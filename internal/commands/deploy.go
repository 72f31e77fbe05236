package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/deploy"
	"github.com/sqve/shipit/internal/logger"
	"github.com/sqve/shipit/internal/ui"
	"github.com/sqve/shipit/internal/validate"
)

// NewDeployCmd creates the deploy command.
func NewDeployCmd() *cobra.Command {
	var opts deploy.Options
	var preflight bool

	cmd := &cobra.Command{
		Use:   "deploy [message]",
		Short: "Commit pending changes and push them",
		Long: `Commit every pending change and push the current branch.

With uncommitted changes, everything is staged and committed with the given
message, or "Auto-deploy: <timestamp>" when none is given. A clean tree is
pushed as-is. Pushing from a branch other than deploy.branch asks for
confirmation first.

When the token variable (deploy.token_env, GITHUB_TOKEN by default) is set,
the push goes to an https URL carrying the token; otherwise to deploy.remote.
The push is attempted once. A failed push keeps the local commit.

Examples:
  shipit deploy                      # Commit with a timestamped message and push
  shipit deploy "Fix chart colours"  # Use a custom commit message
  shipit deploy --validate           # Check Python sources first
  shipit deploy --dry-run            # Show what would happen`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Message = args[0]
			}
			return runDeploy(cmd, opts, preflight)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Push from any branch without asking")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be committed and pushed without doing it")
	cmd.Flags().BoolVar(&preflight, "validate", false, "Validate Python sources before committing")

	return cmd
}

func runDeploy(cmd *cobra.Command, opts deploy.Options, preflight bool) error {
	log := logger.WithComponent("deploy_cmd")

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	repo, err := DefaultCommanderProvider.OpenRepository(cc.Dir)
	if err != nil {
		return err
	}

	log.Debug("starting deployment", "root", repo.Root(), "dry_run", opts.DryRun, "validate", preflight)

	confirmer := ui.NewStreamConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	d := deploy.New(repo, cc.Config, cc.Printer, confirmer).
		WithSpinner(cc.Interactive(cmd))

	if preflight {
		d.WithPreflight(func(ctx context.Context) error {
			v := validate.New(nil, validate.OptionsFromConfig(repo.Root(), cc.Config.Validate))
			report, err := v.Run(ctx)
			report.Print(cc.Printer)
			return err
		})
	}

	_, err = d.Run(cmd.Context(), opts)
	return err
}
