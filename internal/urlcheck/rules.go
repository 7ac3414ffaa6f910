package urlcheck

import (
	"regexp"
	"slices"
	"strings"
)

// Tags emitted by the URL analyzer.
const (
	TagInvalidURL     = "Invalid URL"
	TagHTTPS          = "Secured with HTTPS"
	TagNoHTTPS        = "Not using HTTPS"
	TagInstitutional  = "Educational / Government-style domain"
	TagDigits         = "Domain contains numbers (often used in scam sites)"
	TagManySubdomains = "Long / multi-subdomain URL"
	TagIPAddress      = "IP-based URL instead of normal domain"
	TagVerified       = "Matches known verified domain"
	TagKnownScam      = "Matches known scam domain"
)

// Weights of the list-based rules.
const (
	WeightVerified  = -25
	WeightKnownScam = 40
)

// SuspiciousTLDs are top-level domains that are cheap to register and
// over-represented in scam campaigns.
var SuspiciousTLDs = []string{"xyz", "online", "shop", "top", "loan", "club", "click", "info"}

// institutionalMarkers are substrings that indicate an academic or
// government second-level domain such as .gov.in or .ac.uk.
var institutionalMarkers = []string{".gov.", ".edu.", ".ac."}

var (
	ipPattern    = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// target is what a rule inspects.
type target struct {
	normalized string
	domain     string
	labels     []string
}

func newTarget(normalized, domain string) target {
	return target{
		normalized: normalized,
		domain:     domain,
		labels:     strings.Split(domain, "."),
	}
}

func (t target) tld() string {
	return t.labels[len(t.labels)-1]
}

// rule is one entry of the structural rule table. match returns the tag
// to emit and whether the rule fired.
type rule struct {
	name   string
	weight int
	match  func(t target) (string, bool)
}

// rules is evaluated top to bottom; every firing rule contributes its tag
// and weight.
var rules = []rule{
	{
		name:   "https",
		weight: 0,
		match: func(t target) (string, bool) {
			return TagHTTPS, strings.HasPrefix(t.normalized, "https://")
		},
	},
	{
		name:   "no-https",
		weight: 10,
		match: func(t target) (string, bool) {
			return TagNoHTTPS, !strings.HasPrefix(t.normalized, "https://")
		},
	},
	{
		name:   "suspicious-tld",
		weight: 15,
		match: func(t target) (string, bool) {
			tld := t.tld()
			return "Suspicious TLD (." + tld + ")", slices.Contains(SuspiciousTLDs, tld)
		},
	},
	{
		name:   "institutional",
		weight: -10,
		match: func(t target) (string, bool) {
			for _, m := range institutionalMarkers {
				if strings.Contains(t.domain, m) {
					return TagInstitutional, true
				}
			}
			return "", false
		},
	},
	{
		name:   "digits",
		weight: 10,
		match: func(t target) (string, bool) {
			return TagDigits, digitPattern.MatchString(t.domain)
		},
	},
	{
		name:   "many-subdomains",
		weight: 5,
		match: func(t target) (string, bool) {
			return TagManySubdomains, len(t.labels) > 3
		},
	},
	{
		name:   "ip-address",
		weight: 20,
		match: func(t target) (string, bool) {
			return TagIPAddress, ipPattern.MatchString(t.domain)
		},
	},
}
