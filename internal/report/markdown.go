package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/verdict"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for sharing a verdict with classmates or
// attaching it to a complaint.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and mermaid charts
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("ScholarShield Risk Report")
	md.PlainText("")
	w.writeReportBody(md, report, "##")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs a summary of all reports followed by each report.
func (w *MarkdownWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("ScholarShield Batch Report")
	md.PlainText("")
	w.writeBatchSummary(md, reports)

	for i, r := range reports {
		if r == nil {
			continue
		}
		md.H2(strconv.Itoa(i+1) + ". " + displayDomain(r))
		md.PlainText("")
		w.writeReportBody(md, r, "###")
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeReportBody writes every section of one report. heading is the
// Markdown heading prefix used for its sections.
func (w *MarkdownWriter) writeReportBody(md *markdown.Markdown, report *model.ScanReport, heading string) {
	w.writeOverview(md, report)
	w.writeAlert(md, report)
	w.writePieChart(md, report)
	w.writeURLAnalysis(md, report, heading)
	w.writeContentAnalysis(md, report, heading)
	w.writeDetails(md, report)
}

// writeOverview writes the basic information table.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.ScanReport) {
	rows := [][]string{
		{"URL", "`" + report.Input.URL + "`"},
		{"Domain", "`" + displayDomain(report) + "`"},
		{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
	}
	if report.Verdict != nil {
		rows = append(rows,
			[]string{"Risk Score", "**" + strconv.Itoa(report.Verdict.TotalScore) + " / " + strconv.Itoa(model.MaxTotalScore) + "**"},
			[]string{"Level", levelBadge(report.Verdict.Level)},
		)
	}
	rows = append(rows, []string{"Status", statusText(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes a GitHub alert matching the verdict level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	if report.Verdict == nil {
		return
	}

	switch report.Verdict.Level {
	case model.LevelDanger:
		md.Cautionf("%s %s", report.Headline, report.Recommendation)
	case model.LevelWarning:
		md.Warningf("%s %s", report.Headline, report.Recommendation)
	default:
		md.Tip(report.Headline + " " + report.Recommendation)
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of how much each pass
// contributed to the score. Nothing is written for a zero score.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScanReport) {
	u, c := urlScore(report), contentScore(report)
	if u+c == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Risk Contribution"),
		piechart.WithShowData(true),
	)
	if u > 0 {
		chart.LabelAndIntValue("URL", uint64(u))
	}
	if c > 0 {
		chart.LabelAndIntValue("Content", uint64(c))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeURLAnalysis writes the URL tags with their pill class.
func (w *MarkdownWriter) writeURLAnalysis(md *markdown.Markdown, report *model.ScanReport, heading string) {
	if report.URL == nil {
		return
	}

	md.PlainText(heading + " URL Analysis")
	md.PlainText("")

	rows := make([][]string, len(report.URL.Tags))
	for i, tag := range report.URL.Tags {
		rows[i] = []string{tag, pillBadge(tag)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Signal", "Type"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("URL score: **%d / %d**", report.URL.RiskScore, model.MaxURLScore)
	md.PlainText("")
}

// writeContentAnalysis writes the content issues.
func (w *MarkdownWriter) writeContentAnalysis(md *markdown.Markdown, report *model.ScanReport, heading string) {
	if report.Content == nil {
		return
	}

	md.PlainText(heading + " Content Analysis")
	md.PlainText("")
	md.BulletList(report.Content.Issues...)
	md.PlainText("")
	md.PlainTextf("Content score: **%d / %d**", report.Content.RiskScore, model.MaxContentScore)
	md.PlainText("")
}

// writeDetails writes the collapsible technical details.
func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, report *model.ScanReport) {
	var lines []string
	lines = append(lines, "Scan ID: "+report.ID)
	if report.URL != nil {
		lines = append(lines, "Normalized URL: "+report.URL.NormalizedURL)
		if report.URL.RegistrableDomain != "" {
			lines = append(lines, "Registrable domain: "+report.URL.RegistrableDomain)
		}
	}
	if report.ContentHash != "" {
		lines = append(lines, "Content digest (BLAKE2b-256): "+report.ContentHash)
	}
	if len(report.PerformedSteps) > 0 {
		lines = append(lines, "Steps: "+strings.Join(report.PerformedSteps, ", "))
	}

	md.Details("Scan details", strings.Join(lines, "<br>"))
	md.PlainText("")
}

// writeBatchSummary writes the summary table and level distribution.
func (w *MarkdownWriter) writeBatchSummary(md *markdown.Markdown, reports []*model.ScanReport) {
	summary := NewBatchSummary(reports)

	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for i, r := range reports {
		if r == nil {
			continue
		}
		level := "-"
		if r.Verdict != nil {
			level = levelBadge(r.Verdict.Level)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + truncateString(displayDomain(r), 50) + "`",
			strconv.Itoa(r.TotalScore()),
			level,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Domain", "Score", "Level"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Safe+summary.Warning+summary.Danger > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Verdict Distribution"),
			piechart.WithShowData(true),
		)
		if summary.Safe > 0 {
			chart.LabelAndIntValue("Safe", uint64(summary.Safe))
		}
		if summary.Warning > 0 {
			chart.LabelAndIntValue("Warning", uint64(summary.Warning))
		}
		if summary.Danger > 0 {
			chart.LabelAndIntValue("Danger", uint64(summary.Danger))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case summary.Danger > 0:
		md.Cautionf("%d of %d links look like scams. Highest risk: %s (%d).",
			summary.Danger, summary.Total, summary.Riskiest, summary.HighestScore)
	case summary.Warning > 0:
		md.Warningf("%d of %d links show mixed signals.", summary.Warning, summary.Total)
	case summary.Failed > 0:
		md.Note("Some scans did not complete.")
	default:
		md.Tip("No risky links detected.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Heuristic result generated by ScholarShield. Always confirm on official portals.*")
}

// levelBadge returns the level name with a colored marker.
func levelBadge(l model.Level) string {
	switch l {
	case model.LevelSafe:
		return "🟢 Safe"
	case model.LevelWarning:
		return "🟡 Warning"
	case model.LevelDanger:
		return "🔴 Danger"
	default:
		return "⚪ Unknown"
	}
}

// pillBadge returns the pill class of a tag with a marker.
func pillBadge(tag string) string {
	if verdict.PillClass(tag) == verdict.PillBad {
		return "❌ bad"
	}
	return "✅ good"
}

// statusText returns the status text based on report state.
func statusText(report *model.ScanReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	if !report.IsComplete() {
		return "⚠️ Incomplete"
	}
	return "✅ Complete"
}
