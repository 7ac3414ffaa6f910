package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/verdict"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeVerdict(&sb, report)
	w.writeURLAnalysis(&sb, report)
	w.writeContentAnalysis(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs every report followed by a summary table.
func (w *SimpleWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	var total int
	for _, r := range reports {
		if r == nil {
			continue
		}
		n, err := w.Write(r)
		total += n
		if err != nil {
			return total, err
		}
	}

	var sb strings.Builder
	w.writeBatchSummary(&sb, reports)

	n, err := io.WriteString(w.output, sb.String())
	return total + n, err
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                    SCHOLARSHIELD RISK REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:        %s\n", report.Input.URL)
	fmt.Fprintf(sb, "Domain:     %s\n", displayDomain(report))
	fmt.Fprintf(sb, "Scan Date:  %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST"))

	if w.verbose {
		fmt.Fprintf(sb, "Scan ID:    %s\n", report.ID)
		if report.URL != nil {
			fmt.Fprintf(sb, "Normalized: %s\n", report.URL.NormalizedURL)
			if report.URL.RegistrableDomain != "" {
				fmt.Fprintf(sb, "Registered: %s\n", report.URL.RegistrableDomain)
			}
		}
	}

	if report.ErrorMessage != "" {
		fmt.Fprintf(sb, "Status:     ERROR - %s\n", report.ErrorMessage)
	}

	sb.WriteString("\n")
}

// writeVerdict writes the combined score and the level wording.
func (w *SimpleWriter) writeVerdict(sb *strings.Builder, report *model.ScanReport) {
	w.writeSection(sb, "VERDICT")

	if report.Verdict == nil {
		sb.WriteString("  No verdict (scan incomplete)\n\n")
		return
	}

	fmt.Fprintf(sb, "  Risk score:  %d / %d  [%s]\n",
		report.Verdict.TotalScore, model.MaxTotalScore, strings.ToUpper(report.Verdict.Level.String()))
	fmt.Fprintf(sb, "  URL:         %d / %d\n", urlScore(report), model.MaxURLScore)
	fmt.Fprintf(sb, "  Content:     %d / %d\n", contentScore(report), model.MaxContentScore)
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  %s\n", report.Headline)
	for _, line := range wrap(report.Recommendation, ruleWidth-4) {
		fmt.Fprintf(sb, "  %s\n", line)
	}
	sb.WriteString("\n")
}

// writeURLAnalysis writes the URL tags as pills.
func (w *SimpleWriter) writeURLAnalysis(sb *strings.Builder, report *model.ScanReport) {
	if report.URL == nil {
		return
	}

	w.writeSection(sb, "URL ANALYSIS")

	for _, tag := range report.URL.Tags {
		fmt.Fprintf(sb, "  %s %s\n", pillIndicator(tag), tag)
	}
	sb.WriteString("\n")
}

// writeContentAnalysis writes the content issues.
func (w *SimpleWriter) writeContentAnalysis(sb *strings.Builder, report *model.ScanReport) {
	if report.Content == nil {
		return
	}

	w.writeSection(sb, "CONTENT ANALYSIS")

	for _, issue := range report.Content.Issues {
		fmt.Fprintf(sb, "  * %s\n", issue)
	}
	if w.verbose && report.ContentHash != "" {
		fmt.Fprintf(sb, "\n  Content digest: %s\n", report.ContentHash)
	}
	sb.WriteString("\n")
}

// writeBatchSummary writes one row per report and the level counts.
func (w *SimpleWriter) writeBatchSummary(sb *strings.Builder, reports []*model.ScanReport) {
	summary := NewBatchSummary(reports)

	w.writeSection(sb, "BATCH SUMMARY")

	fmt.Fprintf(sb, "  %-4s %-7s %-8s %s\n", "#", "SCORE", "LEVEL", "DOMAIN")
	for i, r := range reports {
		if r == nil {
			fmt.Fprintf(sb, "  %-4d %-7s %-8s %s\n", i+1, "-", "skipped", "-")
			continue
		}
		fmt.Fprintf(sb, "  %-4d %-7d %-8s %s\n", i+1, r.TotalScore(), levelName(r), truncateString(displayDomain(r), 50))
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  SAFE:    %d\n", summary.Safe)
	fmt.Fprintf(sb, "  WARNING: %d\n", summary.Warning)
	fmt.Fprintf(sb, "  DANGER:  %d\n", summary.Danger)
	if summary.Failed > 0 {
		fmt.Fprintf(sb, "  FAILED:  %d\n", summary.Failed)
	}
	fmt.Fprintf(sb, "\n  TOTAL:   %d scans\n\n", summary.Total)
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Heuristic result only. Always confirm on official portals.\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

// pillIndicator returns "[!]" for bad pills and "[+]" for good ones.
func pillIndicator(tag string) string {
	if verdict.PillClass(tag) == verdict.PillBad {
		return "[!]"
	}
	return "[+]"
}

// wrap splits s into lines of at most width bytes on word boundaries.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
