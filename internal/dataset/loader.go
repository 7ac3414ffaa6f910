package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFetchTimeout bounds a remote dataset download.
	DefaultFetchTimeout = 15 * time.Second

	// MaxDatasetSize caps how much of a dataset file or response is read.
	MaxDatasetSize = 4 * 1024 * 1024
)

// ErrEmptySource is returned when Load is called without a source.
var ErrEmptySource = errors.New("dataset source is empty")

// LoaderOption configures Load.
type LoaderOption func(*loader)

type loader struct {
	client *http.Client
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *loader) {
		if client != nil {
			l.client = client
		}
	}
}

// Load reads a dataset from source, which is either a local file path or
// an http(s) URL. Files ending in .yaml or .yml are decoded as YAML; all
// other sources are decoded as JSON.
func Load(ctx context.Context, source string, opts ...LoaderOption) (*Dataset, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	l := &loader{client: &http.Client{Timeout: DefaultFetchTimeout}}
	for _, opt := range opts {
		opt(l)
	}

	var (
		data []byte
		err  error
	)
	if isRemote(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}

	if isYAML(source) {
		var raw Dataset
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse dataset %s: %w", source, err)
		}
		return New(raw.VerifiedDomains, raw.KnownScamDomains), nil
	}

	ds, err := parseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", source, err)
	}
	return ds, nil
}

// LoadOrEmpty is Load that never fails. An empty source yields the
// bundled list; any load error is logged and yields Empty().
func LoadOrEmpty(ctx context.Context, source string, logger *slog.Logger, opts ...LoaderOption) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}

	if strings.TrimSpace(source) == "" {
		ds, err := Default()
		if err != nil {
			logger.Warn("could not load bundled dataset, continuing without one", "error", err)
			return Empty()
		}
		return ds
	}

	ds, err := Load(ctx, source, opts...)
	if err != nil {
		logger.Warn("could not load dataset, continuing without one",
			"source", source,
			"error", err,
		)
		return Empty()
	}

	logger.Debug("dataset loaded",
		"source", source,
		"verified", len(ds.VerifiedDomains),
		"scams", len(ds.KnownScamDomains),
	)
	return ds
}

// fetch downloads a remote dataset.
func (l *loader) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch dataset: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset response: %w", err)
	}
	return data, nil
}

// readFile reads a local dataset file with the size cap applied.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return data, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isYAML(source string) bool {
	if isRemote(source) {
		if i := strings.IndexAny(source, "?#"); i >= 0 {
			source = source[:i]
		}
	}
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".yaml" || ext == ".yml"
}
