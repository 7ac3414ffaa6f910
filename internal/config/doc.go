// Package config provides configuration structures and utilities for
// ScholarShield. It holds the options for scanning URLs and page text,
// the domain dataset sources, report output preferences, the history
// database location and the HTTP API listener.
package config
