package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanReport is the main scan result structure.
// It carries the input, both analysis results, the verdict and the
// user-facing wording so that report writers and the history database
// need nothing else.
type ScanReport struct {
	// ID uniquely identifies the scan.
	ID string `json:"id"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Input is the URL and text that were scanned.
	Input ScanInput `json:"input"`

	// URL is the URL pass result. Nil until the URL step runs.
	URL *URLAnalysis `json:"url,omitempty"`

	// Content is the text pass result. Nil until the content step runs.
	Content *ContentAnalysis `json:"content,omitempty"`

	// Verdict is nil until both passes have run and been combined.
	Verdict *Verdict `json:"verdict,omitempty"`

	// Headline is the short verdict text for Verdict.Level.
	Headline string `json:"headline,omitempty"`

	// Recommendation is the advice text for Verdict.Level.
	Recommendation string `json:"recommendation,omitempty"`

	// Category is the presentation class for Verdict.Level.
	Category string `json:"category,omitempty"`

	// ContentHash is a hex digest of Input.Content, used by the history
	// database so that page text does not need to be stored.
	ContentHash string `json:"content_hash,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds a step failure, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates a new ScanReport for the given input.
func NewScanReport(input ScanInput) *ScanReport {
	return &ScanReport{
		ID:             uuid.NewString(),
		DateScanned:    time.Now(),
		Input:          input,
		PerformedSteps: make([]string, 0),
	}
}

// Domain returns the analyzed domain, or an empty string if the URL step
// has not run or the URL was invalid.
func (r *ScanReport) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Domain
}

// IsComplete reports whether all three results are present.
func (r *ScanReport) IsComplete() bool {
	return r.URL != nil && r.Content != nil && r.Verdict != nil
}

// TotalScore returns the verdict score, or zero before the verdict step.
func (r *ScanReport) TotalScore() int {
	if r.Verdict == nil {
		return 0
	}
	return r.Verdict.TotalScore
}
