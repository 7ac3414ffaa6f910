package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/scholarshield/internal/config"
	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/urlcheck"
)

// Constants for risk direction.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command lists and compares scan results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Show and compare past scans of a domain",
		Long: `History lists the scans of a domain stored by 'scholarshield scan'.

With --compare it shows what changed between the latest two scans:
- The change in risk score and level
- Signals that appeared since the previous scan
- Signals that are no longer present

Page text is never stored; only a digest of it is kept so that repeated
messages can be recognized. The "Seen" column counts stored scans, of any
domain, that analyzed the same text.

Examples:
  # List scan history for a domain (a full URL is accepted too)
  scholarshield history free-scholarship-2024.xyz

  # Compare the latest two scans of a domain
  scholarshield history --compare free-scholarship-2024.xyz

  # Compare the latest scan with a specific scan by row ID or scan UUID
  scholarshield history --with-scan-id 5 free-scholarship-2024.xyz
  scholarshield history -i 3f1c2a9e-8d4b-4f6a-9c1e-2b7d5e0a4c11 free-scholarship-2024.xyz

  # Output in JSON format
  scholarshield history --json free-scholarship-2024.xyz

  # List all scanned domains in the database
  scholarshield history --list-domains`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-domains", "L", false,
		"List all scanned domains in the database")
	cmd.Flags().Bool("compare", false,
		"Compare the latest two scans of the domain")
	cmd.Flags().StringP("with-scan-id", "i", "",
		"Compare the latest scan with a specific scan by row ID or scan UUID (implies --compare)")

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	listDomains bool
	compare     bool
	withScanID  string
	json        bool
	markdown    bool
	dbDir       string
}

func parseHistoryOptions(cmd *cobra.Command) (historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)
	flags := cmd.Flags()

	if opts.listDomains, err = flags.GetBool("list-domains"); err != nil {
		return opts, err
	}
	if opts.compare, err = flags.GetBool("compare"); err != nil {
		return opts, err
	}
	if opts.withScanID, err = flags.GetString("with-scan-id"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return opts, err
	}

	if opts.json && opts.markdown {
		return opts, config.ErrConflictingReportFormats
	}
	opts.withScanID = strings.TrimSpace(opts.withScanID)
	if opts.withScanID != "" {
		opts.compare = true
	}
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryOptions(cmd)
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var domain string
	if !opts.listDomains {
		if len(args) == 0 {
			return errors.New("domain is required (use --list-domains to see scanned domains)")
		}
		domain = urlcheck.ExtractDomain(urlcheck.Normalize(args[0]))
		if domain == "" {
			return fmt.Errorf("invalid domain: %q", args[0])
		}
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.listDomains:
		return listScannedDomains(ctx, db, out, opts.json)
	case opts.compare:
		return runComparison(ctx, db, out, domain, opts)
	default:
		return listScanHistory(ctx, db, out, domain, opts.json)
	}
}

// listScannedDomains lists all domains that have scan records in the database.
func listScannedDomains(ctx context.Context, db *database.HistoryDB, out io.Writer, jsonOutput bool) error {
	domains, err := db.ListScannedDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if jsonOutput {
		if domains == nil {
			domains = []string{}
		}
		return writeJSON(out, domains)
	}

	if len(domains) == 0 {
		fmt.Fprintln(out, "No scanned domains found in the database.")
		fmt.Fprintln(out, "\nUse 'scholarshield scan <url>' to scan a link.")
		return nil
	}

	fmt.Fprintf(out, "Scanned domains (%d):\n\n", len(domains))
	for _, domain := range domains {
		fmt.Fprintf(out, "  • %s\n", domain)
	}
	fmt.Fprintln(out, "\nUse 'scholarshield history <domain>' to see scan history for a domain.")

	return nil
}

// listScanHistory lists all scan records for a specific domain.
func listScanHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, domain string, jsonOutput bool) error {
	scans, err := db.GetScanHistoryWithMetadata(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if jsonOutput {
		if scans == nil {
			scans = []database.ScanReportMetadata{}
		}
		return writeJSON(out, scans)
	}

	if len(scans) == 0 {
		fmt.Fprintf(out, "No scan history found for %s\n", domain)
		fmt.Fprintln(out, "\nUse 'scholarshield scan' to scan this domain.")
		return nil
	}

	seen, err := contentSeenCounts(ctx, db, scans)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Scan history for %s (%d scans):\n\n", domain, len(scans))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %-8s  %-12s  %s\n", "ID", "Date", "Score", "Level", "Content", "Seen")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 68))

	for _, meta := range scans {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %-8s  %-12s  %s\n",
			meta.ID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			meta.TotalScore,
			meta.Level,
			shortHash(meta.ContentHash),
			formatSeen(seen[meta.ContentHash]),
		)
	}

	fmt.Fprintln(out, "\nUse 'scholarshield history --compare <domain>' to compare the latest two scans.")
	fmt.Fprintln(out, "Use 'scholarshield history --with-scan-id <id|uuid> <domain>' to compare with a specific scan.")

	return nil
}

// contentSeenCounts returns, per content digest in scans, how many stored
// scans analyzed the same text.
func contentSeenCounts(ctx context.Context, db *database.HistoryDB, scans []database.ScanReportMetadata) (map[string]int, error) {
	counts := make(map[string]int)
	for _, meta := range scans {
		if meta.ContentHash == "" {
			continue
		}
		if _, ok := counts[meta.ContentHash]; ok {
			continue
		}
		n, err := db.CountByContentHash(ctx, meta.ContentHash)
		if err != nil {
			return nil, err
		}
		counts[meta.ContentHash] = n
	}
	return counts, nil
}

// formatSeen formats a content repeat count, "-" when no text was scanned.
func formatSeen(n int) string {
	if n == 0 {
		return "-"
	}
	if n == 1 {
		return "once"
	}
	return strconv.Itoa(n) + " times"
}

// shortHash returns the first 12 characters of a content digest.
func shortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// runComparison compares the latest scan of domain with an earlier one.
func runComparison(ctx context.Context, db *database.HistoryDB, out io.Writer, domain string, opts historyOptions) error {
	reports, err := db.GetScanHistory(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no scan history found for %s", domain)
	}

	if len(reports) < 2 && opts.withScanID == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	currentReport := reports[0]
	var previousReport *model.ScanReport

	if opts.withScanID != "" {
		previousReport, err = lookupScan(ctx, db, opts.withScanID)
		if err != nil {
			return err
		}
		if previousReport.Domain() != domain {
			return fmt.Errorf("scan ID %s belongs to %s, not %s", opts.withScanID, previousReport.Domain(), domain)
		}
		if previousReport.ID == currentReport.ID {
			return fmt.Errorf("scan ID %s is the latest scan; choose an earlier one", opts.withScanID)
		}
	} else {
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	switch {
	case opts.json:
		return writeJSON(out, comparison)
	case opts.markdown:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// lookupScan finds a stored scan by its row ID or its scan UUID.
func lookupScan(ctx context.Context, db *database.HistoryDB, ref string) (*model.ScanReport, error) {
	var (
		r   *model.ScanReport
		err error
	)

	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		if id <= 0 {
			return nil, fmt.Errorf("invalid scan ID %q", ref)
		}
		r, err = db.GetScanReportByID(ctx, id)
	} else {
		scanID, perr := uuid.Parse(ref)
		if perr != nil {
			return nil, fmt.Errorf("invalid scan ID %q: want a row ID or a scan UUID", ref)
		}
		r, err = db.GetScanReportByScanID(ctx, scanID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan with ID %s: %w", ref, err)
	}
	if r == nil {
		return nil, fmt.Errorf("scan with ID %s not found", ref)
	}
	return r, nil
}

// ComparisonResult holds the result of comparing two scan reports.
type ComparisonResult struct {
	// Domain is the scanned domain.
	Domain string `json:"domain"`

	// PreviousScan describes the older scan.
	PreviousScan ScanSnapshot `json:"previous_scan"`

	// CurrentScan describes the latest scan.
	CurrentScan ScanSnapshot `json:"current_scan"`

	// NewSignals are tags and issues present only in the current scan.
	NewSignals []string `json:"new_signals,omitempty"`

	// ResolvedSignals are tags and issues present only in the previous scan.
	ResolvedSignals []string `json:"resolved_signals,omitempty"`

	// UnchangedCount is the number of signals present in both scans.
	UnchangedCount int `json:"unchanged_count"`

	// ScoreDelta is current minus previous total score.
	ScoreDelta int `json:"score_delta"`

	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// SameContent reports whether both scans analyzed the same text.
	SameContent bool `json:"same_content"`
}

// ScanSnapshot contains the scores of one scan for comparison display.
type ScanSnapshot struct {
	ScanID       string    `json:"scan_id"`
	DateScanned  time.Time `json:"date_scanned"`
	TotalScore   int       `json:"total_score"`
	URLScore     int       `json:"url_score"`
	ContentScore int       `json:"content_score"`
	Level        string    `json:"level"`
}

func snapshot(r *model.ScanReport) ScanSnapshot {
	s := ScanSnapshot{
		ScanID:      r.ID,
		DateScanned: r.DateScanned,
		TotalScore:  r.TotalScore(),
		Level:       "-",
	}
	if r.URL != nil {
		s.URLScore = r.URL.RiskScore
	}
	if r.Content != nil {
		s.ContentScore = r.Content.RiskScore
	}
	if r.Verdict != nil {
		s.Level = r.Verdict.Level.String()
	}
	return s
}

// signals returns the URL tags and content issues of a report as a set.
func signals(r *model.ScanReport) map[string]struct{} {
	set := make(map[string]struct{})
	if r.URL != nil {
		for _, tag := range r.URL.Tags {
			set[tag] = struct{}{}
		}
	}
	if r.Content != nil {
		for _, issue := range r.Content.Issues {
			set[issue] = struct{}{}
		}
	}
	return set
}

// compareReports compares two scan reports and generates a comparison result.
func compareReports(previous, current *model.ScanReport) *ComparisonResult {
	result := &ComparisonResult{
		Domain:       current.Domain(),
		PreviousScan: snapshot(previous),
		CurrentScan:  snapshot(current),
		SameContent:  previous.ContentHash == current.ContentHash,
	}

	previousSignals := signals(previous)
	currentSignals := signals(current)

	for s := range currentSignals {
		if _, exists := previousSignals[s]; !exists {
			result.NewSignals = append(result.NewSignals, s)
		}
	}
	for s := range previousSignals {
		if _, exists := currentSignals[s]; !exists {
			result.ResolvedSignals = append(result.ResolvedSignals, s)
		} else {
			result.UnchangedCount++
		}
	}
	slices.Sort(result.NewSignals)
	slices.Sort(result.ResolvedSignals)

	result.ScoreDelta = result.CurrentScan.TotalScore - result.PreviousScan.TotalScore
	switch {
	case result.ScoreDelta < 0:
		result.Direction = riskDirectionImproved
	case result.ScoreDelta > 0:
		result.Direction = riskDirectionWorsened
	default:
		result.Direction = riskDirectionUnchanged
	}

	return result
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Scan Comparison: " + result.Domain)
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")
	md.PlainTextf("**Risk Status:** %s", formatRiskDirection(result.Direction))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", result.PreviousScan.DateScanned.Format("2006-01-02 15:04"), result.CurrentScan.DateScanned.Format("2006-01-02 15:04"), "-"},
			{"URL score", strconv.Itoa(result.PreviousScan.URLScore), strconv.Itoa(result.CurrentScan.URLScore),
				formatDelta(result.CurrentScan.URLScore - result.PreviousScan.URLScore)},
			{"Content score", strconv.Itoa(result.PreviousScan.ContentScore), strconv.Itoa(result.CurrentScan.ContentScore),
				formatDelta(result.CurrentScan.ContentScore - result.PreviousScan.ContentScore)},
			{"**Total**", "**" + strconv.Itoa(result.PreviousScan.TotalScore) + "**", "**" + strconv.Itoa(result.CurrentScan.TotalScore) + "**",
				"**" + formatDelta(result.ScoreDelta) + "**"},
			{"Level", result.PreviousScan.Level, result.CurrentScan.Level, "-"},
		},
	})
	md.PlainText("")

	if len(result.NewSignals) > 0 {
		md.H2(fmt.Sprintf("New Signals (%d)", len(result.NewSignals)))
		md.PlainText("")
		md.BulletList(result.NewSignals...)
		md.PlainText("")
	}

	if len(result.ResolvedSignals) > 0 {
		md.H2(fmt.Sprintf("Resolved Signals (%d)", len(result.ResolvedSignals)))
		md.PlainText("")
		resolved := make([]string, len(result.ResolvedSignals))
		for i, s := range result.ResolvedSignals {
			resolved[i] = "~~" + s + "~~"
		}
		md.BulletList(resolved...)
		md.PlainText("")
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d signals unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Scan Comparison: %s\n", result.Domain)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nRisk Status: %s\n", formatRiskDirection(result.Direction))

	fmt.Fprintf(out, "\nPrevious scan: %s\n", result.PreviousScan.DateScanned.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current scan:  %s\n", result.CurrentScan.DateScanned.Local().Format("2006-01-02 15:04:05"))
	if result.SameContent {
		fmt.Fprintln(out, "Page text:     unchanged")
	} else {
		fmt.Fprintln(out, "Page text:     changed")
	}

	fmt.Fprintln(out, "\nScores:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Pass", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "URL",
		result.PreviousScan.URLScore, result.CurrentScan.URLScore,
		formatDelta(result.CurrentScan.URLScore-result.PreviousScan.URLScore))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Content",
		result.PreviousScan.ContentScore, result.CurrentScan.ContentScore,
		formatDelta(result.CurrentScan.ContentScore-result.PreviousScan.ContentScore))
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousScan.TotalScore, result.CurrentScan.TotalScore,
		formatDelta(result.ScoreDelta))
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s\n", "Level",
		result.PreviousScan.Level, result.CurrentScan.Level)

	if len(result.NewSignals) > 0 {
		fmt.Fprintf(out, "\nNew Signals (%d):\n", len(result.NewSignals))
		for _, s := range result.NewSignals {
			fmt.Fprintf(out, "  [+] %s\n", s)
		}
	}

	if len(result.ResolvedSignals) > 0 {
		fmt.Fprintf(out, "\nResolved Signals (%d):\n", len(result.ResolvedSignals))
		for _, s := range result.ResolvedSignals {
			fmt.Fprintf(out, "  [-] %s\n", s)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d signals\n", result.UnchangedCount)
	}

	return nil
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (risk decreased)"
	case riskDirectionWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
