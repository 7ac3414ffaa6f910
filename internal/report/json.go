package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/scholarshield/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
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

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(report)
}

// WriteBatch outputs a JSON object holding the summary and all reports.
func (w *JSONWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	return w.writeJSON(NewJSONBatch(reports, ""))
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

// JSONReport is a single report wrapped with the tool version.
type JSONReport struct {
	// Version is the scholarshield version that generated this report.
	Version string `json:"version"`

	// Report is the scan report.
	Report *model.ScanReport `json:"report"`
}

// JSONBatch is the JSON document written for a multi-target run.
type JSONBatch struct {
	// Version is the scholarshield version, omitted when unknown.
	Version string `json:"version,omitempty"`

	// Summary aggregates all reports.
	Summary BatchSummary `json:"summary"`

	// Reports are in input order.
	Reports []*model.ScanReport `json:"reports"`
}

// NewJSONBatch builds the batch document for reports.
func NewJSONBatch(reports []*model.ScanReport, version string) *JSONBatch {
	if reports == nil {
		reports = []*model.ScanReport{}
	}
	return &JSONBatch{
		Version: version,
		Summary: NewBatchSummary(reports),
		Reports: reports,
	}
}

// FullJSONWriter outputs reports wrapped with version metadata.
type FullJSONWriter struct {
	*JSONWriter

	// version is the scholarshield version string.
	version string
}

// NewFullJSONWriter creates a writer for reports with version metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(&JSONReport{Version: w.version, Report: report})
}

// WriteBatch outputs the batch document with the version set.
func (w *FullJSONWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	return w.writeJSON(NewJSONBatch(reports, w.version))
}
