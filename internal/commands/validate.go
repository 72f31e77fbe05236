package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/shipit/internal/validate"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that Python sources parse",
		Long: `Parse each file in validate.files without executing it.

The first file with a syntax error stops the run and fails the command.
Missing files from validate.config_files, expected classes from
validate.expect and unset variables from validate.env are reported as
warnings.

Examples:
  shipit validate              # Check the current directory
  shipit validate --dir ./app  # Check another project root`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project root (default: current directory)")

	return cmd
}

func runValidate(cmd *cobra.Command, dir string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	root := dir
	if root == "" {
		root = cc.Dir
	}

	report, err := validate.New(nil, validate.OptionsFromConfig(root, cc.Config.Validate)).Run(cmd.Context())
	report.Print(cc.Printer)
	if err != nil {
		return err
	}

	cc.Printer.Success("All %d file(s) passed", len(report.Files))
	return nil
}
