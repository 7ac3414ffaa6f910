package model

// Score caps for each analysis pass and for the combined total.
const (
	// MaxURLScore is the upper bound of URLAnalysis.RiskScore.
	MaxURLScore = 60

	// MaxContentScore is the upper bound of ContentAnalysis.RiskScore.
	MaxContentScore = 40

	// MaxTotalScore is the upper bound of Verdict.TotalScore.
	MaxTotalScore = 100
)

// ScanInput is what the user submitted for a single scan.
type ScanInput struct {
	// URL is the link exactly as entered.
	URL string `json:"url"`

	// Content is the page or message text pasted alongside the link.
	// It may be empty.
	Content string `json:"content"`
}

// URLAnalysis is the outcome of the URL heuristics pass.
type URLAnalysis struct {
	// OriginalURL is the raw input.
	OriginalURL string `json:"original_url"`

	// NormalizedURL is the input with a scheme guaranteed.
	NormalizedURL string `json:"normalized_url"`

	// Domain is the lowercased hostname, empty when the URL could not be parsed.
	Domain string `json:"domain"`

	// RegistrableDomain is the eTLD+1 of Domain when it has one.
	// It is informational and does not affect the score.
	RegistrableDomain string `json:"registrable_domain,omitempty"`

	// IsHTTPS reports whether the normalized URL uses https.
	IsHTTPS bool `json:"is_https"`

	// Tags explain which rules fired, in evaluation order. Never empty.
	Tags []string `json:"tags"`

	// RiskScore is in [0, MaxURLScore].
	RiskScore int `json:"risk_score"`
}

// ContentAnalysis is the outcome of the page text heuristics pass.
type ContentAnalysis struct {
	// RiskScore is in [0, MaxContentScore].
	RiskScore int `json:"risk_score"`

	// Issues explain which rules fired, in evaluation order. Never empty.
	Issues []string `json:"issues"`
}

// Verdict is the combined classification of a scan.
type Verdict struct {
	// TotalScore is the clamped sum of both pass scores, in [0, MaxTotalScore].
	TotalScore int `json:"total_score"`

	// Level is the band TotalScore falls into.
	Level Level `json:"level"`
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
