package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nao1215/regreport/internal/config"
	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/model"
	"github.com/nao1215/regreport/internal/pipeline"
	"github.com/nao1215/regreport/internal/report"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [model-file...]",
		Short: "Compose the regression report of fitted models",
		Long: `Render composes the fixed-width regression report of one or more fitted
model documents (YAML or JSON) and saves every report to the history.

Several documents are rendered concurrently; reports are written in the
order the documents were given.

Examples:
  # Render a single model
  regreport render ols.yaml

  # Render with the variance matrix and White standard errors
  regreport render --vm --robust white ols.yaml

  # Render several models, two at a time
  regreport render -b 2 ols.yaml gm_regimes.yaml ml_lag.yaml

  # Write a Markdown report to a file
  regreport render --markdown -o reports/ols.md ols.yaml

  # Write the report to a file and print it as well
  regreport render --tee -o reports/ols.txt ols.yaml

  # Output JSON without saving to the history
  regreport render --json --no-save ols.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runRenderCmd,
	}

	// Report flags
	cmd.Flags().Bool("vm", false,
		"Append the coefficient variance-covariance matrix")
	cmd.Flags().StringP("robust", "r", model.RobustNone.String(),
		"Robust variance estimator: none, white, hac or ogmm")
	cmd.Flags().String("closing-text", "",
		"Text appended after the closing rule of every report")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of documents rendered concurrently")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"Also print the reports to stdout when --output is set")
	cmd.Flags().Bool("no-save", false,
		"Do not save the reports to the history")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer := setupLogger(cfg, cmd.ErrOrStderr())
	defer closer.Close()
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runRender(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from the configuration file, the
// environment and the render flags. Flags override file values only when
// they were set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("vm") {
		if cfg.VarianceMatrix, err = flags.GetBool("vm"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("robust") {
		name, err := flags.GetString("robust")
		if err != nil {
			return nil, err
		}
		robust, ok := model.ParseRobustKind(name)
		if !ok {
			return nil, fmt.Errorf("configuration error: %w: %q", config.ErrInvalidRobust, name)
		}
		cfg.Robust = robust
	}

	if flags.Changed("closing-text") {
		if cfg.ClosingText, err = flags.GetString("closing-text"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	// Either format flag replaces the configured format.
	if flags.Changed("json") || flags.Changed("markdown") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
	}

	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.TeeReport, err = flags.GetBool("tee"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if noSave {
		cfg.SaveToDB = false
	}

	cfg.Inputs = args

	return cfg, nil
}

// runRender renders every input and writes the reports in input order.
// A document that fails to render does not stop the others.
func runRender(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Info("starting render",
		"inputs", cfg.Inputs,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineVarianceMatrix(cfg.VarianceMatrix),
		pipeline.WithPipelineRobust(cfg.Robust),
		pipeline.WithPipelineClosingText(cfg.ClosingText),
	}

	// Open database connection if saving is enabled
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
		configOpts = append(configOpts, pipeline.WithPipelineStore(db))
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(logger, nil, configOpts...)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	total := len(cfg.Inputs)
	var finished atomic.Int32
	jobs, err := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(job *pipeline.Job, _ int) {
		n := finished.Add(1)
		logger.Info("rendered document",
			"progress", fmt.Sprintf("%d/%d", n, total),
			"source", job.Source,
			"failed", job.Failed(),
		)
	})
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	runIDs := make(map[*model.Result]string, len(jobs))
	for _, job := range jobs {
		if job.Result != nil {
			runIDs[job.Result] = job.RunID
		}
	}
	runID := func(res *model.Result) string {
		return runIDs[res]
	}
	writer := newResultWriter(cfg.JSONReport, cfg.MarkdownReport, output, runID)
	if cfg.TeeReport && cfg.ReportFile != "" {
		writer = report.NewMultiWriter(writer,
			newResultWriter(cfg.JSONReport, cfg.MarkdownReport, stdout, runID))
	}

	failures := 0
	for _, job := range jobs {
		if job.Failed() {
			failures++
			fmt.Fprintf(stderr, "Render error for %s: %v\n", job.Source, job.Err)
			continue
		}

		if _, err := writer.Write(job.Result); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", job.Source, err)
		}

		if job.RunID != "" {
			fmt.Fprintf(stderr, "Saved %s as run %s\n", job.Source, job.RunID)
		}
		if len(job.Duplicates) > 0 {
			logger.Info("identical report already in history",
				"source", job.Source,
				"runs", job.Duplicates,
			)
		}
	}

	logger.Info("render completed",
		"documents", len(jobs),
		"failed", failures,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if failures > 0 {
		return fmt.Errorf("%d of %d reports failed", failures, len(jobs))
	}
	return nil
}

// openOutput returns the destination of the reports: the given file, or
// fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path is supplied by the user on purpose
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newResultWriter returns the writer for the requested output format.
// runID looks up the history id of a result for the JSON format.
func newResultWriter(jsonReport, markdownReport bool, output io.Writer, runID func(*model.Result) string) report.Writer {
	switch {
	case jsonReport:
		return report.NewRunJSONWriter(output, getVersion(), runID, report.WithPrettyPrint())
	case markdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output, report.WithTrailingNewline(true))
	}
}
