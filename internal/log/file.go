package log

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	// Path is the log file path. Rotated files are kept next to it.
	Path string

	// MaxSize is the size in megabytes at which the file is rotated.
	MaxSize int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAge is the number of days rotated files are kept.
	MaxAge int

	// Compress gzips rotated files.
	Compress bool
}

// NewFileWriter returns a rotating writer for opts.Path.
func NewFileWriter(opts FileOptions) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}
}

// NewTeeLogger creates a logger writing compacted text records to w and,
// when opts.Path is set, JSON records to a rotating log file. The file
// always records at Debug level. The returned closer releases the file.
func NewTeeLogger(w io.Writer, verbose bool, opts FileOptions) (*slog.Logger, io.Closer) {
	if opts.Path == "" {
		return NewLogger(w, verbose), nopCloser{}
	}

	console := slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})

	file := NewFileWriter(opts)
	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewCompactHandler(teeHandler{console, jsonHandler})), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// teeHandler sends every record to each handler that accepts its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
