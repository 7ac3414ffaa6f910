package config

import (
	"slices"
	"strings"
)

// File represents the structure of the .scholarshield configuration file.
type File struct {
	// Dataset is a file path or http(s) URL of the domain dataset.
	// The --dataset flag takes precedence.
	Dataset string `yaml:"dataset,omitempty"`

	// VerifiedDomains are added to the dataset's verified list.
	VerifiedDomains []string `yaml:"verifiedDomains,omitempty"`

	// KnownScamDomains are added to the dataset's scam list.
	KnownScamDomains []string `yaml:"knownScamDomains,omitempty"`

	// Batch overrides the default number of concurrent scans.
	Batch int `yaml:"batch,omitempty"`

	// Format is the default report format: text, json or markdown.
	Format string `yaml:"format,omitempty"`
}

// Validate checks the values read from the file.
func (f *File) Validate() error {
	if f.Batch < 0 {
		return ErrInvalidBatchSize
	}
	if f.Format != "" && !slices.Contains([]string{FormatText, FormatJSON, FormatMarkdown}, strings.ToLower(f.Format)) {
		return ErrInvalidFormat
	}
	return nil
}

// HasExtraDomains reports whether the file adds any dataset entries.
func (f *File) HasExtraDomains() bool {
	return f != nil && (len(f.VerifiedDomains) > 0 || len(f.KnownScamDomains) > 0)
}

// Apply copies file settings into c for every option the user did not set
// on the command line. changed reports whether a flag was given explicitly.
func (f *File) Apply(c *Config, changed func(flag string) bool) {
	if f == nil {
		return
	}
	c.File = f

	if f.Dataset != "" && !changed("dataset") {
		c.DatasetSource = f.Dataset
	}
	if f.Batch > 0 && !changed("batch") {
		c.BatchSize = f.Batch
	}
	if changed("json") || changed("markdown") {
		return
	}
	switch strings.ToLower(f.Format) {
	case FormatJSON:
		c.JSONReport = true
	case FormatMarkdown:
		c.MarkdownReport = true
	}
}

// ApplyServe copies file settings into the server configuration.
func (f *File) ApplyServe(c *ServeConfig, changed func(flag string) bool) {
	if f == nil {
		return
	}
	c.File = f

	if f.Dataset != "" && !changed("dataset") {
		c.DatasetSource = f.Dataset
	}
	if f.Batch > 0 && !changed("batch") {
		c.BatchSize = f.Batch
	}
}
