package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/model"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a stored report",
		Long: `Show prints a report saved by 'regreport render'.

The run may be given by its full id or by a unique prefix of it.

Examples:
  # Print a stored report
  regreport show 0192f3a4-7b1c-7d2e-9f00-1a2b3c4d5e6f

  # Print it by id prefix, as Markdown
  regreport show --markdown 0192f3a4-7b1c`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output report in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output report in Markdown format (mutually exclusive with --json)")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown cannot be used together")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := findRun(cmd, db, args[0])
	if err != nil {
		return err
	}

	writer := newResultWriter(jsonOutput, markdownOutput, cmd.OutOrStdout(), func(*model.Result) string {
		return rec.ID
	})
	_, err = writer.Write(rec.Result)
	return err
}

// findRun looks up a stored run by id or id prefix.
func findRun(cmd *cobra.Command, db *database.ReportDB, idOrPrefix string) (*database.ReportRecord, error) {
	rec, err := db.GetReport(cmd.Context(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", idOrPrefix, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("run %s not found (use 'regreport history' to see stored runs)", idOrPrefix)
	}
	return rec, nil
}
