package urlcheck

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// schemePattern matches an http or https scheme prefix in any case.
var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// hostProfile converts internationalized hostnames the way a browser URL
// parser does before the rules see them.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// Normalize trims raw and prepends "https://" when it has no http or
// https scheme. An empty or blank input yields "".
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if schemePattern.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// ExtractDomain returns the lowercase hostname of an absolute URL, without
// port or path. It returns "" when the URL cannot be parsed or has no host.
// Non-ASCII hostnames are returned in their ASCII (punycode) form.
func ExtractDomain(normalized string) string {
	if normalized == "" {
		return ""
	}

	u, err := url.Parse(normalized)
	if err != nil || !u.IsAbs() {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}

	if !isASCII(host) {
		ascii, err := hostProfile.ToASCII(host)
		if err != nil || ascii == "" {
			return ""
		}
		host = ascii
	}

	return host
}

// RegistrableDomain returns the eTLD+1 of domain, or "" when the domain is
// itself a public suffix, an IP literal or otherwise has none.
func RegistrableDomain(domain string) string {
	if domain == "" || ipPattern.MatchString(domain) {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(domain, "."))
	if err != nil {
		return ""
	}
	return etld1
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
