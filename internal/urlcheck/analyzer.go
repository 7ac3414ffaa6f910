package urlcheck

import (
	"strings"

	"github.com/nao1215/scholarshield/internal/dataset"
	"github.com/nao1215/scholarshield/internal/model"
)

// Analyze scores raw against the structural rules and the lists in ds.
// A nil ds behaves like dataset.Empty().
func Analyze(raw string, ds *dataset.Dataset) model.URLAnalysis {
	normalized := Normalize(raw)
	domain := ExtractDomain(normalized)

	result := model.URLAnalysis{
		OriginalURL:   raw,
		NormalizedURL: normalized,
		Domain:        domain,
	}

	// An unparsable URL is never reported as HTTPS.
	if domain == "" {
		result.Tags = []string{TagInvalidURL}
		result.RiskScore = model.MaxURLScore
		return result
	}

	result.IsHTTPS = strings.HasPrefix(normalized, "https://")

	result.RegistrableDomain = RegistrableDomain(domain)

	t := newTarget(normalized, domain)
	score := 0
	tags := make([]string, 0, len(rules))

	for _, r := range rules {
		tag, ok := r.match(t)
		if !ok {
			continue
		}
		tags = append(tags, tag)
		score += r.weight
	}

	if ds.IsVerified(domain) {
		tags = append(tags, TagVerified)
		score += WeightVerified
	}
	if ds.IsKnownScam(domain) {
		tags = append(tags, TagKnownScam)
		score += WeightKnownScam
	}

	result.Tags = tags
	result.RiskScore = model.Clamp(score, 0, model.MaxURLScore)
	return result
}
