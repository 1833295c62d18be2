package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/regreport/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dataset]",
		Short: "List stored reports",
		Long: `History lists the reports saved by 'regreport render'.

Without arguments it lists the datasets that have stored reports. With a
dataset name it lists the runs of that dataset, newest first. Runs with the
same digest produced the identical report text.

Examples:
  # List all datasets in the history
  regreport history

  # List the runs of a dataset
  regreport history columbus

  # Output the runs in JSON format
  regreport history --json columbus`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
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

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return listDatasets(ctx, db, out, jsonOutput)
	}
	return listRuns(ctx, db, out, args[0], jsonOutput)
}

// listDatasets lists all datasets that have stored reports.
func listDatasets(ctx context.Context, db *database.ReportDB, out io.Writer, jsonOutput bool) error {
	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if jsonOutput {
		if datasets == nil {
			datasets = []string{}
		}
		return encodeJSON(out, datasets)
	}

	if len(datasets) == 0 {
		fmt.Fprintln(out, "No stored reports found in the history.")
		fmt.Fprintln(out, "\nUse 'regreport render <model-file>' to render and save a report.")
		return nil
	}

	fmt.Fprintf(out, "Datasets (%d):\n\n", len(datasets))
	for _, dataset := range datasets {
		fmt.Fprintf(out, "  • %s\n", displayDataset(dataset))
	}
	fmt.Fprintln(out, "\nUse 'regreport history <dataset>' to see the runs of a dataset.")

	return nil
}

// listRuns lists all runs stored for a dataset.
func listRuns(ctx context.Context, db *database.ReportDB, out io.Writer, dataset string, jsonOutput bool) error {
	runs, err := db.History(ctx, dataset)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.ReportMetadata{}
		}
		return encodeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No stored reports found for %s\n", displayDataset(dataset))
		return nil
	}

	fmt.Fprintf(out, "History of %s (%d runs):\n\n", displayDataset(dataset), len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %-16s  %6s  %s\n", "ID", "Date", "Digest", "Params", "Title")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 100))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %-16s  %6d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Digest,
			run.Parameters,
			run.Title,
		)
	}

	fmt.Fprintln(out, "\nUse 'regreport show <id>' to print a stored report.")
	fmt.Fprintln(out, "Use 'regreport compare <id> <id>' to compare two runs.")

	return nil
}

// displayDataset returns the dataset name for display.
func displayDataset(dataset string) string {
	if dataset == "" {
		return "(unnamed)"
	}
	return dataset
}

// encodeJSON writes v as indented JSON.
func encodeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
