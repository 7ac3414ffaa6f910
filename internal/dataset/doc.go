// Package dataset provides the verified and known-scam domain lists that
// the URL analyzer cross-checks against.
//
// A Dataset is plain read-only data. It is loaded once per run from a JSON
// or YAML file, an http(s) URL, or the list bundled with the binary, and
// is passed to the analyzer as a value. Loading failures never reach the
// analyzer: LoadOrEmpty logs the failure and substitutes Empty().
package dataset
