package main

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/nao1215/scholarshield/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("expected use 'serve', got %q", cmd.Use)
	}

	flag := cmd.Flags().Lookup("listen")
	if flag == nil {
		t.Fatal("expected listen flag")
	}
	if flag.Shorthand != "a" || flag.DefValue != config.DefaultListenAddress {
		t.Errorf("listen flag = -%s %q", flag.Shorthand, flag.DefValue)
	}

	for _, name := range []string{"dataset", "timeout", "batch", "max-body", "config", "no-history", "db-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads flags", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{
			"--config", testConfigFile(t),
			"--listen", ":9090",
			"--timeout", "3s",
			"--batch", "5",
			"--max-body", "2048",
			"--db-dir", dbDir,
		}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}

		if cfg.ListenAddress != ":9090" {
			t.Errorf("ListenAddress = %q", cfg.ListenAddress)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if cfg.BatchSize != 5 {
			t.Errorf("BatchSize = %d", cfg.BatchSize)
		}
		if cfg.MaxBodySize != 2048 {
			t.Errorf("MaxBodySize = %d", cfg.MaxBodySize)
		}
		if cfg.DBDir != dbDir {
			t.Errorf("DBDir = %q, want %q", cfg.DBDir, dbDir)
		}
	})

	t.Run("no-history clears the database dir", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--config", testConfigFile(t), "--no-history"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.DBDir != "" {
			t.Errorf("DBDir = %q, want empty", cfg.DBDir)
		}
	})

	t.Run("config file fills unset flags", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, ".scholarshield", "dataset: https://example.org/domains.json\nbatch: 7\n")

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.DatasetSource != "https://example.org/domains.json" {
			t.Errorf("DatasetSource = %q", cfg.DatasetSource)
		}
		if cfg.BatchSize != 7 {
			t.Errorf("BatchSize = %d, want 7", cfg.BatchSize)
		}
	})
}

func TestServeCommandValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"empty listen address", []string{"--listen", ""}, config.ErrInvalidListenAddress},
		{"zero body size", []string{"--max-body", "0"}, config.ErrInvalidMaxBodySize},
		{"zero batch", []string{"--batch", "0"}, config.ErrInvalidBatchSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewServeCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(append([]string{"--config", testConfigFile(t), "--no-history"}, tt.args...))

			err := cmd.Execute()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
