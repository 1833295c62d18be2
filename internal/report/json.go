package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/regreport/internal/model"
)

// JSONWriter outputs results in JSON format for programmatic processing:
// the report text, the visible results table and the Chow tables.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in JSON format.
func (w *JSONWriter) Write(result *model.Result) (int, error) {
	return w.writeJSON(result)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a result with the metadata of a stored run.
type JSONReport struct {
	// Version is the regreport version that generated this report.
	Version string `json:"version"`

	// RunID identifies the stored run, when the report was saved.
	RunID string `json:"run_id,omitempty"`

	// Digest is the hex xxhash64 of the report text.
	Digest string `json:"digest,omitempty"`

	Result *model.Result `json:"result"`
}

// RunJSONWriter outputs results wrapped with run metadata.
type RunJSONWriter struct {
	*JSONWriter

	version string
	runID   func(*model.Result) string
}

// NewRunJSONWriter creates a writer for results with run metadata. runID
// looks up the stored run id of a result and may be nil.
func NewRunJSONWriter(output io.Writer, version string, runID func(*model.Result) string, opts ...JSONWriterOption) *RunJSONWriter {
	return &RunJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
		runID:      runID,
	}
}

// Write outputs the result wrapped with metadata.
func (w *RunJSONWriter) Write(result *model.Result) (int, error) {
	wrapped := &JSONReport{
		Version: w.version,
		Digest:  Digest(result.Summary),
		Result:  result,
	}
	if w.runID != nil {
		wrapped.RunID = w.runID(result)
	}
	return w.writeJSON(wrapped)
}
