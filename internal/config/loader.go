package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/regreport/internal/model"
	"github.com/spf13/viper"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".regreport.yaml"

// EnvPrefix prefixes the environment variables overriding file values,
// e.g. REGREPORT_REPORT_ROBUST for report.robust.
const EnvPrefix = "REGREPORT"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the content of a .regreport.yaml file.
type File struct {
	Report   ReportSection   `mapstructure:"report" yaml:"report"`
	Batch    int             `mapstructure:"batch" yaml:"batch"`
	Database DatabaseSection `mapstructure:"database" yaml:"database"`
	Log      LogSection      `mapstructure:"log" yaml:"log"`
}

// ReportSection holds the report composition settings.
type ReportSection struct {
	VarianceMatrix bool   `mapstructure:"variance_matrix" yaml:"variance_matrix"`
	Robust         string `mapstructure:"robust" yaml:"robust"`
	ClosingText    string `mapstructure:"closing_text" yaml:"closing_text"`
	// Format is one of text, markdown or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseSection holds the report history settings.
type DatabaseSection struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	Disabled bool   `mapstructure:"disabled" yaml:"disabled"`
}

// LogSection holds the rotating log file settings.
type LogSection struct {
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// setDefaults registers every key so that environment overrides apply
// even when the file leaves a key out.
func setDefaults(v *viper.Viper) {
	v.SetDefault("report.variance_matrix", false)
	v.SetDefault("report.robust", "")
	v.SetDefault("report.closing_text", "")
	v.SetDefault("report.format", "text")
	v.SetDefault("batch", DefaultBatchSize)
	v.SetDefault("database.dir", "")
	v.SetDefault("database.disabled", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age", DefaultLogMaxAge)
	v.SetDefault("log.compress", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfigFile loads settings from a YAML file, with REGREPORT_*
// environment variables taking precedence over the file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshal(v)
}

// LoadEnv loads settings from defaults and REGREPORT_* environment
// variables only, for runs without a config file.
func LoadEnv() (*File, error) {
	return unmarshal(newViper())
}

func unmarshal(v *viper.Viper) (*File, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &f, nil
}

// Apply copies the file settings onto c. CLI flags are applied
// afterwards and win over the file.
func (f *File) Apply(c *Config) error {
	robust, ok := model.ParseRobustKind(f.Report.Robust)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRobust, f.Report.Robust)
	}
	c.Robust = robust
	c.VarianceMatrix = f.Report.VarianceMatrix
	c.ClosingText = f.Report.ClosingText

	switch strings.ToLower(f.Report.Format) {
	case "", "text":
		c.JSONReport, c.MarkdownReport = false, false
	case "markdown", "md":
		c.JSONReport, c.MarkdownReport = false, true
	case "json":
		c.JSONReport, c.MarkdownReport = true, false
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, f.Report.Format)
	}

	if f.Batch != 0 {
		c.BatchSize = f.Batch
	}
	if f.Database.Dir != "" {
		c.DBDir = f.Database.Dir
	}
	c.SaveToDB = !f.Database.Disabled

	c.LogFile = f.Log.File
	c.LogMaxSize = f.Log.MaxSize
	c.LogMaxBackups = f.Log.MaxBackups
	c.LogMaxAge = f.Log.MaxAge
	c.LogCompress = f.Log.Compress
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .regreport.yaml in the current directory
// 3. Look for .regreport.yaml in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
