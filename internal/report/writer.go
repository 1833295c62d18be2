package report

import (
	"io"

	"github.com/nao1215/regreport/internal/model"
)

// Writer defines the interface for report output.
// Implementations export a composed report in various formats.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.Result) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// This is useful for printing a report while exporting it to a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// TextWriter outputs the fixed-width report text as composed.
type TextWriter struct {
	baseWriter

	// trailingNewline terminates the report with a newline. The composed
	// report itself ends on the closing banner.
	trailingNewline bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithTrailingNewline terminates the written report with a newline.
func WithTrailingNewline(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		w.trailingNewline = enabled
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report summary.
func (w *TextWriter) Write(result *model.Result) (int, error) {
	text := result.Summary
	if w.trailingNewline {
		text += "\n"
	}
	return io.WriteString(w.output, text)
}
