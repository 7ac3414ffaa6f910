package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/verified-list.json
var defaultList []byte

// Dataset is the pair of domain lists consulted by the URL analyzer.
// Entries are lowercase and non-blank once a Dataset is built with New.
type Dataset struct {
	// VerifiedDomains are domains (or domain suffixes) of trusted issuers.
	VerifiedDomains []string `json:"verifiedDomains" yaml:"verifiedDomains"`

	// KnownScamDomains are domains reported as scams.
	KnownScamDomains []string `json:"knownScamDomains" yaml:"knownScamDomains"`
}

// Empty returns a dataset with no entries.
// The URL analyzer scores correctly against it; list-based tags never fire.
func Empty() *Dataset {
	return &Dataset{
		VerifiedDomains:  []string{},
		KnownScamDomains: []string{},
	}
}

// New builds a Dataset, lowercasing and trimming every entry and dropping
// blank ones. A blank verified entry would otherwise match every domain.
func New(verified, scams []string) *Dataset {
	return &Dataset{
		VerifiedDomains:  clean(verified),
		KnownScamDomains: clean(scams),
	}
}

// Default returns the list bundled with the binary.
func Default() (*Dataset, error) {
	ds, err := parseJSON(defaultList)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled dataset: %w", err)
	}
	return ds, nil
}

// Merge returns a new Dataset holding the entries of both d and other,
// without duplicates. Neither input is modified.
func (d *Dataset) Merge(other *Dataset) *Dataset {
	if other == nil {
		return New(d.VerifiedDomains, d.KnownScamDomains)
	}
	return New(
		append(append([]string{}, d.VerifiedDomains...), other.VerifiedDomains...),
		append(append([]string{}, d.KnownScamDomains...), other.KnownScamDomains...),
	)
}

// Len returns the total number of entries in both lists.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.VerifiedDomains) + len(d.KnownScamDomains)
}

// IsVerified reports whether domain ends with any verified entry.
// The suffix does not have to fall on a label boundary.
func (d *Dataset) IsVerified(domain string) bool {
	if d == nil {
		return false
	}
	for _, v := range d.VerifiedDomains {
		if strings.HasSuffix(domain, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// IsKnownScam reports whether domain equals a scam entry or is a
// subdomain of one.
func (d *Dataset) IsKnownScam(domain string) bool {
	if d == nil {
		return false
	}
	for _, s := range d.KnownScamDomains {
		s = strings.ToLower(s)
		if domain == s || strings.HasSuffix(domain, "."+s) {
			return true
		}
	}
	return false
}

// parseJSON decodes a dataset document and cleans its entries.
func parseJSON(data []byte) (*Dataset, error) {
	var raw Dataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return New(raw.VerifiedDomains, raw.KnownScamDomains), nil
}

// clean lowercases, trims, drops blanks and removes duplicates while
// keeping first-seen order.
func clean(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		result = append(result, e)
	}
	return result
}
