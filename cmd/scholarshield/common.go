package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarshield/internal/config"
	"github.com/nao1215/scholarshield/internal/dataset"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfigFile finds and loads the configuration file.
// If the user explicitly specified a path, a missing file is an error.
// Otherwise a missing file yields nil without error.
func loadConfigFile(configPath string) (*config.File, error) {
	path := config.FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return file, nil
}

// datasetSource returns source, or the XDG dataset override when source
// is empty and the override file exists.
func datasetSource(source string) string {
	if source != "" {
		return source
	}
	if _, err := os.Stat(config.XDGDatasetPath()); err == nil {
		return config.XDGDatasetPath()
	}
	return ""
}

// loadDataset loads the domain dataset and adds the config file's extra
// domains. It never fails: load errors are logged and scanning continues
// with whatever could be loaded.
func loadDataset(ctx context.Context, source string, timeout time.Duration, file *config.File, logger *slog.Logger) *dataset.Dataset {
	ds := dataset.LoadOrEmpty(ctx, datasetSource(source), logger,
		dataset.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	if file.HasExtraDomains() {
		ds = ds.Merge(dataset.New(file.VerifiedDomains, file.KnownScamDomains))
		logger.Debug("added domains from config file",
			"verified", len(file.VerifiedDomains),
			"scams", len(file.KnownScamDomains),
		)
	}

	return ds
}
