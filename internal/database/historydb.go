package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/scholarshield/internal/content"
	"github.com/nao1215/scholarshield/internal/model"
)

// FileName is the name of the history database inside its directory.
const FileName = "scholarshield.db"

// timestampLayout is fixed width so that stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB provides SQLite-based storage for scan reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		total_score INTEGER NOT NULL,
		level TEXT NOT NULL,
		content_hash TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_domain ON scan_reports(domain);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON scan_reports(timestamp);
	CREATE INDEX IF NOT EXISTS idx_reports_content_hash ON scan_reports(content_hash);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanReport stores a report and returns its row ID.
// The page text is replaced by its digest before the report is serialized.
func (hdb *HistoryDB) SaveScanReport(ctx context.Context, report *model.ScanReport) (int64, error) {
	stored := *report
	if stored.ContentHash == "" {
		stored.ContentHash = content.Hash(stored.Input.Content)
	}
	stored.Input.Content = ""

	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	level := ""
	if stored.Verdict != nil {
		level = stored.Verdict.Level.String()
	}

	query := `
	INSERT INTO scan_reports (scan_id, domain, timestamp, total_score, level, content_hash, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		stored.ID,
		stored.Domain(),
		stored.DateScanned.UTC().Format(timestampLayout),
		stored.TotalScore(),
		level,
		nullString(stored.ContentHash),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scan report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}
	return id, nil
}

// GetLatestScanReport retrieves the most recent scan report for a domain.
// It returns nil without error when the domain has never been scanned.
func (hdb *HistoryDB) GetLatestScanReport(ctx context.Context, domain string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE domain = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`
	return hdb.queryReport(ctx, query, domain)
}

// GetScanReportByID retrieves a scan report by its database ID.
// It returns nil without error when no such row exists.
func (hdb *HistoryDB) GetScanReportByID(ctx context.Context, id int64) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE id = ?
	`
	return hdb.queryReport(ctx, query, id)
}

// GetScanReportByScanID retrieves a scan report by its scan UUID.
// It returns nil without error when no such row exists.
func (hdb *HistoryDB) GetScanReportByScanID(ctx context.Context, scanID string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE scan_id = ?
	`
	return hdb.queryReport(ctx, query, scanID)
}

func (hdb *HistoryDB) queryReport(ctx context.Context, query string, arg any) (*model.ScanReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListScannedDomains returns every domain with at least one stored scan,
// sorted alphabetically. Scans of invalid URLs have no domain and are
// not listed.
func (hdb *HistoryDB) ListScannedDomains(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT domain FROM scan_reports
	WHERE domain != ''
	ORDER BY domain
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

// GetScanHistory retrieves all scan reports for a domain, newest first.
func (hdb *HistoryDB) GetScanHistory(ctx context.Context, domain string) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE domain = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.ScanReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ScanReportMetadata contains summary information about a stored scan.
// This is used for displaying history without loading the full report.
type ScanReportMetadata struct {
	// ID is the row ID of the scan report in the database.
	ID int64 `json:"id"`

	// ScanID is the scan UUID.
	ScanID string `json:"scan_id"`

	// Domain is the scanned domain.
	Domain string `json:"domain"`

	// Timestamp is when the scan was performed.
	Timestamp time.Time `json:"timestamp"`

	// TotalScore is the combined risk score.
	TotalScore int `json:"total_score"`

	// Level is the risk level name.
	Level string `json:"level"`

	// ContentHash is the digest of the scanned text, empty when none was given.
	ContentHash string `json:"content_hash,omitempty"`
}

// GetScanHistoryWithMetadata retrieves scan metadata for a domain, newest first.
// This is more efficient than GetScanHistory when only metadata is needed.
func (hdb *HistoryDB) GetScanHistoryWithMetadata(ctx context.Context, domain string) ([]ScanReportMetadata, error) {
	query := `
	SELECT id, scan_id, domain, timestamp, total_score, level, content_hash
	FROM scan_reports
	WHERE domain = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanReportMetadata
	for rows.Next() {
		var meta ScanReportMetadata
		var timestamp string
		var hash sql.NullString

		if err := rows.Scan(&meta.ID, &meta.ScanID, &meta.Domain, &timestamp,
			&meta.TotalScore, &meta.Level, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.ContentHash = hash.String

		results = append(results, meta)
	}

	return results, rows.Err()
}

// CountByContentHash returns how many stored scans had the same page text.
func (hdb *HistoryDB) CountByContentHash(ctx context.Context, hash string) (int, error) {
	if hash == "" {
		return 0, nil
	}

	var n int
	err := hdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scan_reports WHERE content_hash = ?`, hash,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
