package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// MaxStringLen is the longest string value logged verbatim. Longer values,
// typically whole report texts, are truncated.
const MaxStringLen = 256

// CompactHandler wraps an slog.Handler to keep regression data out of the
// log. Coefficient vectors and variance matrices are replaced by their
// shape, and long strings are truncated before the record reaches the
// underlying handler.
type CompactHandler struct {
	// handler is the underlying slog handler that receives compacted records.
	handler slog.Handler
}

// NewCompactHandler creates a new CompactHandler wrapping the given handler.
// If handler is nil, the returned CompactHandler will use slog.Default().Handler().
func NewCompactHandler(handler slog.Handler) *CompactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CompactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle compacts the record's attributes and passes it to the underlying handler.
func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	compacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		compacted.AddAttrs(compactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, compacted)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are compacted before being added.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	compacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		compacted[i] = compactAttr(a)
	}
	return &CompactHandler{handler: h.handler.WithAttrs(compacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{handler: h.handler.WithGroup(name)}
}

// compactAttr compacts a single attribute, recursively handling groups.
func compactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		compacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			compacted[i] = compactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(compacted...)}
	case slog.KindString:
		if s := a.Value.String(); len(s) > MaxStringLen {
			return slog.String(a.Key, fmt.Sprintf("%s...(%d bytes)", s[:MaxStringLen], len(s)))
		}
	case slog.KindAny:
		if shape, ok := shapeOf(a.Value.Any()); ok {
			return slog.String(a.Key, shape)
		}
	}
	return a
}

// shapeOf summarises numeric slices and matrices.
func shapeOf(v any) (string, bool) {
	switch x := v.(type) {
	case []float64:
		return fmt.Sprintf("float64[%d]", len(x)), true
	case []int:
		return fmt.Sprintf("int[%d]", len(x)), true
	case [][]float64:
		cols := 0
		if len(x) > 0 {
			cols = len(x[0])
		}
		return fmt.Sprintf("float64[%d x %d]", len(x), cols), true
	default:
		return "", false
	}
}

// levelFor returns Debug when verbose and Warn otherwise.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a new slog.Logger writing compacted text records.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewCompactHandler(slog.NewTextHandler(w, opts)))
}
