// Package main provides the entry point for the ScholarShield CLI.
//
// ScholarShield scores scholarship and opportunity links, together with
// the text that came with them, for signs of a scam. It works offline
// with fixed heuristics and a list of known verified and scam domains.
//
// Usage:
//
//	scholarshield scan <url>
//	scholarshield scan --content-file message.txt <url>
//	scholarshield scan --list urls.txt
//	scholarshield serve
//
// See --help for all available options.
package main

// main is the entry point for ScholarShield.
func main() {
	Execute()
}
