package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarshield/internal/config"
	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/dataset"
	"github.com/nao1215/scholarshield/internal/extract"
	"github.com/nao1215/scholarshield/internal/log"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/pipeline"
	"github.com/nao1215/scholarshield/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Score scholarship links and messages for scam risk",
		Long: `Scan checks one or more links, and optionally the text that came with them,
for common scholarship scam signals.

The URL check looks at:
- HTTPS, suspicious TLDs (.xyz, .top, .loan, ...) and IP-address hosts
- Digits and deep subdomains in the host name
- Government / educational domains and the verified / scam domain lists

The text check looks for fees, "100% guarantee" claims, urgency, WhatsApp
contact, requests for documents, income promises and lottery language.

Examples:
  # Scan a single link
  scholarshield scan https://free-scholarship-2024.xyz/apply

  # Scan a link together with the message that came with it
  scholarshield scan --content "Pay registration fee Rs 500 on WhatsApp" free-scholarship-2024.xyz

  # Scan a saved web page (HTML is reduced to its visible text)
  scholarshield scan --content-file page.html https://example.org/scheme

  # Read the message from stdin
  pbpaste | scholarshield scan --content-file - https://example.org

  # Scan a list of links (one per line, # starts a comment)
  scholarshield scan --list links.txt --markdown -o report.md

  # Use your own domain dataset
  scholarshield scan --dataset ./domains.yaml https://example.org`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Input flags
	cmd.Flags().StringP("content", "C", "",
		"Page or message text to analyze together with the URL")
	cmd.Flags().StringP("content-file", "f", "",
		"Read page text from a file, HTML is auto-extracted (\"-\" reads stdin)")
	cmd.Flags().StringP("list", "l", "",
		"File with URLs to scan, one per line")

	// Dataset flags
	cmd.Flags().StringP("dataset", "d", "",
		"Domain dataset file (.json/.yaml) or http(s) URL (default: built-in list)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for downloading a remote dataset")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .scholarshield in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History
	cmd.Flags().Bool("no-history", false,
		"Do not save results to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	text, err := readContent(cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return runScan(ctx, cfg, text, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from cobra command flags and the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.Content, err = flags.GetString("content"); err != nil {
		return nil, err
	}
	if cfg.ContentFile, err = flags.GetString("content-file"); err != nil {
		return nil, err
	}
	if cfg.DatasetSource, err = flags.GetString("dataset"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	file, err := loadConfigFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	file.Apply(cfg, flags.Changed)

	cfg.Targets = append(cfg.Targets, args...)

	listFile, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		targets, err := readTargetList(listFile)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}

	return cfg, nil
}

// readTargetList reads URLs from a file, one per line.
// Blank lines and lines starting with # are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}
	return targets, nil
}

// readContent returns the page text given by --content or --content-file.
// Saved HTML pages are reduced to their visible text.
func readContent(cfg *config.Config, stdin io.Reader) (string, error) {
	if cfg.Content != "" {
		return cfg.Content, nil
	}
	if cfg.ContentFile == "" {
		return "", nil
	}

	var r io.Reader
	if cfg.ContentFile == "-" {
		r = stdin
	} else {
		f, err := os.Open(cfg.ContentFile)
		if err != nil {
			return "", fmt.Errorf("failed to open content file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, extract.MaxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}

	text, err := extract.Content(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract page text: %w", err)
	}
	return text, nil
}

// scanInputs pairs targets with the page text. Text is only ever given
// for a single target, or without any URL.
func scanInputs(targets []string, text string) []model.ScanInput {
	if len(targets) == 0 {
		return []model.ScanInput{{Content: text}}
	}

	inputs := make([]model.ScanInput, len(targets))
	for i, target := range targets {
		inputs[i] = model.ScanInput{URL: target}
	}
	inputs[0].Content = text
	return inputs
}

// runScan executes the scan and writes the report.
// A high risk verdict is a result, not a failure: the exit code stays 0.
func runScan(ctx context.Context, cfg *config.Config, text string, stdout io.Writer, logger *slog.Logger) error {
	inputs := scanInputs(cfg.Targets, text)

	logger.Info("starting scan",
		"targets", len(inputs),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	ds := loadDataset(ctx, cfg.DatasetSource, cfg.Timeout, cfg.File, logger)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled, failed to open database", "dir", cfg.DBDir, "error", err)
			db = nil
		} else {
			defer db.Close()
			logger.Debug("database opened", "path", db.Path())
		}
	}

	var reports []*model.ScanReport
	if len(inputs) == 1 {
		scanReport, err := pipeline.DefaultPipeline(ds, pipeline.WithLogger(logger)).Scan(ctx, inputs[0])
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		reports = []*model.ScanReport{scanReport}
	} else {
		var err error
		reports, err = runBatchScan(ctx, cfg, ds, inputs, logger)
		if err != nil {
			return err
		}
	}

	for _, r := range reports {
		if err := saveScanReport(ctx, db, r, logger); err != nil {
			logger.Error("failed to save scan report", "scan_id", r.ID, "error", err)
		}
	}

	return outputReports(cfg, reports, stdout)
}

// runBatchScan scans multiple inputs concurrently using BatchProcessor.
// Reports are returned in input order.
func runBatchScan(ctx context.Context, cfg *config.Config, ds *dataset.Dataset, inputs []model.ScanInput, logger *slog.Logger) ([]*model.ScanReport, error) {
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(ds, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports := make([]*model.ScanReport, len(inputs))
	var mu sync.Mutex
	done := 0

	err := bp.ProcessBatchWithCallback(ctx, inputs, func(r *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		reports[index] = r
		done++
		logger.Debug("scan completed",
			"progress", fmt.Sprintf("%d/%d", done, len(inputs)),
			"domain", r.Domain(),
			"score", r.TotalScore(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("batch scan interrupted: %w", err)
	}

	return reports, nil
}

// newWriter returns the report writer selected by cfg.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// outputReports writes the reports in the requested format to stdout or
// the report file.
func outputReports(cfg *config.Config, reports []*model.ScanReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer := newWriter(cfg, output)

	var err error
	if len(reports) == 1 {
		_, err = writer.Write(reports[0])
	} else {
		_, err = writer.WriteBatch(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.HistoryDB, r *model.ScanReport, logger *slog.Logger) error {
	if db == nil || r == nil || !r.IsComplete() {
		return nil
	}

	id, err := db.SaveScanReport(ctx, r)
	if err != nil {
		return err
	}

	logger.Debug("scan report saved to database", "id", id, "domain", r.Domain())
	return nil
}
