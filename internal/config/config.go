package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "scholarshield"

	// DefaultBatchSize of 10 concurrent scans. Scans are CPU-bound and
	// cheap, so this mostly bounds memory for long URL lists.
	DefaultBatchSize = 10

	// DefaultTimeout bounds fetching a remote dataset.
	DefaultTimeout = 15 * time.Second

	// DefaultListenAddress is where the HTTP API listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultMaxBodySize limits API request bodies to 1 MiB.
	DefaultMaxBodySize = 1 << 20

	// DefaultReadHeaderTimeout protects the API from slow clients.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout is how long in-flight API requests may take
	// to finish after a shutdown signal.
	DefaultShutdownTimeout = 10 * time.Second
)

// Report format names accepted in the config file.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for a scan run.
// This struct is populated from CLI flags and the config file and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct for the scan command. The
// HTTP API has its own ServeConfig because it shares only the dataset and
// database settings.
type Config struct {
	// Targets is the list of URLs to scan.
	Targets []string

	// Content is page text given directly on the command line.
	Content string

	// ContentFile is a file holding page text or a saved HTML page.
	// "-" reads from stdin.
	ContentFile string

	// DatasetSource is a file path or http(s) URL of the domain dataset.
	// When empty, the built-in dataset is used.
	DatasetSource string

	// Timeout bounds fetching a remote dataset.
	Timeout time.Duration

	// BatchSize is the number of concurrent scans for multiple targets.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .scholarshield in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the config file, if any.
	File *File

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables, alerts
	// and a pie chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the history database.
	// Defaults to the XDG data directory (~/.local/share/scholarshield on Linux).
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// HasContent reports whether page text was supplied in any form.
func (c *Config) HasContent() bool {
	return c.Content != "" || c.ContentFile != ""
}

// XDGDataDir returns the XDG data directory for ScholarShield.
// On Linux: ~/.local/share/scholarshield
// On macOS: ~/Library/Application Support/scholarshield
// On Windows: %LOCALAPPDATA%\scholarshield
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ScholarShield.
// On Linux: ~/.config/scholarshield
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDatasetPath returns the dataset override location. A dataset placed
// here replaces the built-in list when no --dataset flag or config entry
// names one.
func XDGDatasetPath() string {
	return filepath.Join(XDGConfigDir(), "dataset.json")
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate once after CLI parsing, before any
// scanning begins, and return the first error found rather than collecting
// all errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 && !c.HasContent() {
		return ErrNoTarget
	}

	if c.Content != "" && c.ContentFile != "" {
		return ErrConflictingContentSources
	}

	if c.HasContent() && len(c.Targets) > 1 {
		return ErrContentWithMultipleTargets
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ServeConfig holds the options of the HTTP API.
type ServeConfig struct {
	// ListenAddress is the "host:port" the API binds to.
	ListenAddress string

	// DatasetSource is a file path or http(s) URL of the domain dataset.
	DatasetSource string

	// Timeout bounds fetching a remote dataset.
	Timeout time.Duration

	// MaxBodySize limits request bodies in bytes.
	MaxBodySize int64

	// BatchSize is the number of concurrent scans for batch requests.
	BatchSize int

	// ReadHeaderTimeout is passed to http.Server.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// DBDir is the history database directory. Empty disables history.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// File holds the settings loaded from the config file, if any.
	File *File
}

// NewServeConfig creates a new ServeConfig with default values.
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		ListenAddress:     DefaultListenAddress,
		Timeout:           DefaultTimeout,
		MaxBodySize:       DefaultMaxBodySize,
		BatchSize:         DefaultBatchSize,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		DBDir:             XDGDataDir(),
	}
}

// Validate checks if the server configuration is valid.
func (c *ServeConfig) Validate() error {
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
