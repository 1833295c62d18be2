package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/regreport/internal/config"
	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for regreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regreport",
		Short: "Compose regression reports from fitted models",
		Long: `regreport composes the fixed-width text report of a fitted regression model
(OLS, two stage least squares, spatial GM/GMM and ML estimators, with or
without regimes) and keeps a history of the generated reports.

Settings are read from .regreport.yaml in the current directory, the home
directory or the XDG config directory, and from REGREPORT_* environment
variables. Command line flags win over both.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .regreport.yaml in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds a Config from defaults, the configuration file and the
// environment. Command flags are applied by the caller.
//
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise the environment alone is used when no file is found.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	explicitPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = explicitPath

	var file *config.File
	if path := config.FindConfigFile(explicitPath); path != "" {
		file, err = config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if explicitPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
	} else {
		file, err = config.LoadEnv()
		if err != nil {
			return nil, err
		}
	}

	if err := file.Apply(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the structured logger of a run. Records go to w and,
// when a log file is configured, to a rotating JSON log file.
func setupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer) {
	return log.NewTeeLogger(w, cfg.Verbose, log.FileOptions{
		Path:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
}

// openHistory opens the existing report history for reading.
func openHistory(cfg *config.Config) (*database.ReportDB, error) {
	if cfg.DBDir == "" {
		return nil, config.ErrNoDatabaseDir
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return nil, errNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open report history: %w", err)
	}
	return db, nil
}

// errNoHistory is returned when no report has been saved yet.
var errNoHistory = errors.New("no report history found (use 'regreport render' to generate and save reports)")
