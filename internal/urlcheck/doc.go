// Package urlcheck scores a link against a fixed set of URL heuristics.
//
// The analysis never touches the network. It looks only at the shape of
// the URL (scheme, top-level domain, digits, depth, IP literal) and at
// the verified and known-scam lists of a dataset.Dataset.
//
// Scoring:
//
//	Not using HTTPS                          +10
//	Suspicious TLD (.xyz, .top, ...)         +15
//	Educational / Government-style domain    -10
//	Domain contains numbers                  +10
//	Long / multi-subdomain URL                +5
//	IP-based URL                             +20
//	Matches known verified domain            -25
//	Matches known scam domain                +40
//
// The sum is clamped to [0, 60] once, after every rule has run. A URL
// whose hostname cannot be extracted scores the maximum and carries the
// single tag "Invalid URL".
package urlcheck
