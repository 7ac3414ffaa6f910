package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and ServeConfig.Validate()
// and provide specific information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when there is nothing to scan.
	ErrNoTarget = errors.New("no target specified: provide a URL, --content, --content-file or --list")

	// ErrContentWithMultipleTargets is returned when page text is given
	// together with more than one URL. Text belongs to a single page.
	ErrContentWithMultipleTargets = errors.New("page content can only be scanned together with a single URL")

	// ErrConflictingContentSources is returned when both --content and
	// --content-file are specified.
	ErrConflictingContentSources = errors.New("conflicting content sources: --content and --content-file cannot be used together")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidTimeout is returned when the dataset fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidFormat is returned when the config file names an unknown
	// report format.
	ErrInvalidFormat = errors.New("invalid format: must be text, json or markdown")

	// ErrInvalidListenAddress is returned when the HTTP API listen address
	// is empty.
	ErrInvalidListenAddress = errors.New("invalid listen address: must not be empty")

	// ErrInvalidMaxBodySize is returned when the request body limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")
)
