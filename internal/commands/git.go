package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	shiperrors "github.com/sqve/shipit/internal/errors"
)

const defaultLogCount = 10

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show git status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, "status", "status")
		},
	}
}

// NewLogCmd creates the log command.
func NewLogCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent commits",
		Long: `Show recent commits in one-line form.

Examples:
  shipit log        # Last 10 commits
  shipit log -n 3   # Last 3 commits`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--number must be at least 1, got %d", count)
			}
			return runGit(cmd, "log", "log", "--oneline", "-n", strconv.Itoa(count))
		},
	}

	cmd.Flags().IntVarP(&count, "number", "n", defaultLogCount, "Number of commits to show")

	return cmd
}

// NewPullCmd creates the pull command.
func NewPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull deploy.branch from deploy.remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runGit(cmd, "pull", "pull", cc.Config.Deploy.Remote, cc.Config.Deploy.Branch)
		},
	}
}

// runGit streams a single git command from the repository root.
func runGit(cmd *cobra.Command, operation string, args ...string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	repo, err := DefaultCommanderProvider.OpenRepository(cc.Dir)
	if err != nil {
		return err
	}

	if err := repo.Exec(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args...); err != nil {
		return shiperrors.ErrGitOperation(operation, err)
	}
	return nil
}
