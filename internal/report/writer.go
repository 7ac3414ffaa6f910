package report

import (
	"io"

	"github.com/nao1215/scholarshield/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a single scan report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)

	// WriteBatch outputs the reports of a multi-target run followed by
	// (or wrapped in) a summary of all of them.
	WriteBatch(reports []*model.ScanReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because each Writer renders its own format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the reports to all configured Writers.
func (m *MultiWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(reports)
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

// urlScore returns the URL pass score, or zero before it ran.
func urlScore(report *model.ScanReport) int {
	if report.URL == nil {
		return 0
	}
	return report.URL.RiskScore
}

// contentScore returns the content pass score, or zero before it ran.
func contentScore(report *model.ScanReport) int {
	if report.Content == nil {
		return 0
	}
	return report.Content.RiskScore
}

// levelName returns the verdict level, or "unknown" for incomplete reports.
func levelName(report *model.ScanReport) string {
	if report.Verdict == nil {
		return "unknown"
	}
	return report.Verdict.Level.String()
}

// displayDomain returns the domain, falling back to the raw input for
// invalid URLs.
func displayDomain(report *model.ScanReport) string {
	if d := report.Domain(); d != "" {
		return d
	}
	if report.Input.URL != "" {
		return report.Input.URL
	}
	return "(no URL)"
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
