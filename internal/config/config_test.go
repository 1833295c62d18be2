package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/regreport/internal/model"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Robust is none", func(t *testing.T) {
		t.Parallel()
		if cfg.Robust != model.RobustNone {
			t.Errorf("expected Robust to be none, got %s", cfg.Robust)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("history is saved to the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default report is text without variance matrix", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected text output by default")
		}
		if cfg.VarianceMatrix {
			t.Error("expected VarianceMatrix to be false")
		}
	})

	t.Run("log file is disabled", func(t *testing.T) {
		t.Parallel()
		if cfg.LogFile != "" {
			t.Errorf("expected empty LogFile, got %q", cfg.LogFile)
		}
		if cfg.LogMaxSize != DefaultLogMaxSize {
			t.Errorf("expected LogMaxSize %d, got %d", DefaultLogMaxSize, cfg.LogMaxSize)
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Inputs = []string{"model.yaml"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "no input", mutate: func(c *Config) { c.Inputs = nil }, want: ErrNoInput},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, want: ErrInvalidBatchSize},
		{
			name: "json and markdown",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			want: ErrConflictingReportFormats,
		},
		{name: "unknown robust", mutate: func(c *Config) { c.Robust = "jackknife" }, want: ErrInvalidRobust},
		{name: "history without directory", mutate: func(c *Config) { c.DBDir = "" }, want: ErrNoDatabaseDir},
		{
			name: "no history needs no directory",
			mutate: func(c *Config) {
				c.DBDir = ""
				c.SaveToDB = false
			},
		},
		{name: "negative log age", mutate: func(c *Config) { c.LogMaxAge = -1 }, want: ErrInvalidLogRotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		cfg, err := LoadConfigFile("/nonexistent/path/.regreport.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		path := writeConfig(t, `report:
  variance_matrix: true
  robust: hac
  closing_text: "Done.\n"
  format: markdown
batch: 8
database:
  dir: /tmp/regreport
log:
  file: /tmp/regreport.log
  compress: true
`)

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.Report.VarianceMatrix {
			t.Error("expected variance_matrix to be true")
		}
		if f.Report.Robust != "hac" {
			t.Errorf("expected robust hac, got %q", f.Report.Robust)
		}
		if f.Report.ClosingText != "Done.\n" {
			t.Errorf("expected closing text, got %q", f.Report.ClosingText)
		}
		if f.Batch != 8 {
			t.Errorf("expected batch 8, got %d", f.Batch)
		}
		if f.Log.MaxSize != DefaultLogMaxSize {
			t.Errorf("expected default log max size, got %d", f.Log.MaxSize)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("REGREPORT_REPORT_ROBUST", "white")
		t.Setenv("REGREPORT_BATCH", "2")

		f, err := LoadConfigFile(writeConfig(t, "report:\n  robust: hac\nbatch: 8\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Report.Robust != "white" {
			t.Errorf("expected robust white from env, got %q", f.Report.Robust)
		}
		if f.Batch != 2 {
			t.Errorf("expected batch 2 from env, got %d", f.Batch)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		if _, err := LoadConfigFile(writeConfig(t, `invalid: yaml: content: [}`)); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("REGREPORT_DATABASE_DISABLED", "true")

	f, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Database.Disabled {
		t.Error("expected database to be disabled from env")
	}
	if f.Report.Format != "text" {
		t.Errorf("expected default format text, got %q", f.Report.Format)
	}
}

// TestFileApply tests copying file settings onto a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("applies every section", func(t *testing.T) {
		t.Parallel()

		f := &File{
			Report:   ReportSection{VarianceMatrix: true, Robust: "ogmm", ClosingText: "x", Format: "json"},
			Batch:    6,
			Database: DatabaseSection{Dir: "/data", Disabled: true},
			Log:      LogSection{File: "r.log", MaxSize: 1, MaxBackups: 2, MaxAge: 3, Compress: true},
		}
		cfg := NewConfig()
		if err := f.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Robust != model.RobustOGMM || !cfg.VarianceMatrix || cfg.ClosingText != "x" {
			t.Errorf("report settings not applied: %+v", cfg)
		}
		if !cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected json output")
		}
		if cfg.BatchSize != 6 || cfg.DBDir != "/data" || cfg.SaveToDB {
			t.Errorf("batch or database settings not applied: %+v", cfg)
		}
		if cfg.LogFile != "r.log" || cfg.LogMaxAge != 3 || !cfg.LogCompress {
			t.Errorf("log settings not applied: %+v", cfg)
		}
	})

	t.Run("keeps defaults for zero values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{}).Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BatchSize != DefaultBatchSize || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected defaults to survive, got %+v", cfg)
		}
	})

	t.Run("rejects unknown robust", func(t *testing.T) {
		t.Parallel()

		err := (&File{Report: ReportSection{Robust: "jackknife"}}).Apply(NewConfig())
		if !errors.Is(err, ErrInvalidRobust) {
			t.Errorf("expected ErrInvalidRobust, got %v", err)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		err := (&File{Report: ReportSection{Format: "pdf"}}).Apply(NewConfig())
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := writeConfig(t, "batch: 1\n")

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds the file in the working directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("batch: 1\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if !strings.HasSuffix(result, DefaultConfigFile) || filepath.Dir(result) != dir {
			t.Errorf("expected config in %q, got %q", dir, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if filepath.Base(dir) != AppName {
			t.Errorf("expected %s dir to end with %q, got %q", name, AppName, dir)
		}
	}
}
