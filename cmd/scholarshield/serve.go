package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/scholarshield/internal/config"
	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/log"
	"github.com/nao1215/scholarshield/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scanner as an HTTP API",
		Long: `Serve starts an HTTP API so that browser extensions, chat bots or a web
front end can score links without running the CLI.

Endpoints:
  POST /api/v1/scan              {"url": "...", "content": "..."}
  POST /api/v1/scan/batch        [{"url": "..."}, ...]
  GET  /api/v1/history/{domain}  stored scans of a domain
  GET  /healthz                  liveness check
  GET  /metrics                  Prometheus metrics

Examples:
  # Listen on the default address
  scholarshield serve

  # Listen on all interfaces with a custom dataset
  scholarshield serve --listen :8080 --dataset https://example.org/domains.json

  # Do not keep scan history
  scholarshield serve --no-history`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "a", config.DefaultListenAddress,
		"Address to listen on")
	cmd.Flags().StringP("dataset", "d", "",
		"Domain dataset file (.json/.yaml) or http(s) URL (default: built-in list)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for downloading a remote dataset")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans per batch request")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum request body size in bytes")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .scholarshield in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Do not save results to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// buildServeConfig creates a ServeConfig from cobra command flags and the config file.
func buildServeConfig(cmd *cobra.Command) (*config.ServeConfig, error) {
	cfg := config.NewServeConfig()
	flags := cmd.Flags()

	var err error

	if cfg.ListenAddress, err = flags.GetString("listen"); err != nil {
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
	if cfg.MaxBodySize, err = flags.GetInt64("max-body"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.DBDir = ""
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	file, err := loadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	file.ApplyServe(cfg, flags.Changed)

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, logger)
}

// runServer loads the dataset, opens the history database and serves
// until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.ServeConfig, logger *slog.Logger) error {
	ds := loadDataset(ctx, cfg.DatasetSource, cfg.Timeout, cfg.File, logger)

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMaxBodySize(cfg.MaxBodySize),
		server.WithConcurrency(cfg.BatchSize),
		server.WithReadHeaderTimeout(cfg.ReadHeaderTimeout),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	}

	if cfg.DBDir != "" {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		opts = append(opts, server.WithHistory(db))
		logger.Info("history enabled", "path", db.Path())
	}

	logger.Info("starting server",
		"address", cfg.ListenAddress,
		"verified", len(ds.VerifiedDomains),
		"scams", len(ds.KnownScamDomains),
	)

	return server.New(ds, opts...).Run(ctx, cfg.ListenAddress)
}
