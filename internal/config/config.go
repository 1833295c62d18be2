package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/regreport/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "regreport"

	// DefaultBatchSize is the number of model files rendered concurrently.
	// Each report is composed on a single goroutine; only whole files run
	// in parallel.
	DefaultBatchSize = 4

	// DefaultLogMaxSize is the size in megabytes at which the log file is
	// rotated.
	DefaultLogMaxSize = 10

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAge is the number of days rotated log files are kept.
	DefaultLogMaxAge = 28
)

// Config holds all configuration options for regreport.
// It is populated from the config file, the environment and CLI flags, in
// that order of increasing precedence, and passed down explicitly.
type Config struct {
	// VarianceMatrix appends the coefficient variance matrix to reports.
	VarianceMatrix bool

	// Robust is the robust variance estimator announced above the
	// coefficient tables.
	Robust model.RobustKind

	// ClosingText is appended verbatim at the end of every report.
	ClosingText string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of model files rendered concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .regreport.yaml in the current
	// directory, the user's home directory and the XDG config directory.
	ConfigFilePath string

	// JSONReport writes JSON instead of the fixed-width text report.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes Markdown instead of the fixed-width text report.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// TeeReport also prints the report to stdout when ReportFile is set.
	TeeReport bool

	// Inputs are the fitted model documents to render.
	Inputs []string

	// DBDir is the directory path for storing the report history database.
	// Defaults to XDG data directory (~/.local/share/regreport on Linux).
	DBDir string

	// SaveToDB indicates whether rendered reports are kept in the history.
	SaveToDB bool

	// LogFile is the path of a rotating JSON log file. Empty disables it.
	LogFile string

	// LogMaxSize, LogMaxBackups and LogMaxAge control log rotation.
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int

	// LogCompress gzips rotated log files.
	LogCompress bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Robust:        model.RobustNone,
		BatchSize:     DefaultBatchSize,
		DBDir:         XDGDataDir(),
		SaveToDB:      true,
		LogMaxSize:    DefaultLogMaxSize,
		LogMaxBackups: DefaultLogMaxBackups,
		LogMaxAge:     DefaultLogMaxAge,
	}
}

// XDGDataDir returns the XDG data directory for regreport.
// On Linux: ~/.local/share/regreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for regreport.
// On Linux: ~/.config/regreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if !c.Robust.IsValid() {
		return ErrInvalidRobust
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDatabaseDir
	}

	if c.LogMaxSize < 0 || c.LogMaxBackups < 0 || c.LogMaxAge < 0 {
		return ErrInvalidLogRotation
	}

	return nil
}
