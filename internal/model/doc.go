// Package model defines the core data structures used throughout scholarshield.
//
// This package contains the following main types:
//   - ScanInput: The URL and page text a user wants checked
//   - URLAnalysis: Result of the URL heuristics pass
//   - ContentAnalysis: Result of the page text heuristics pass
//   - Verdict: The combined score and its risk level
//   - ScanReport: Everything above, plus scan metadata
//
// Models live in their own package so that the analyzers, the pipeline,
// the history database and the report writers can share them without
// import cycles.
//
// All types serialize to JSON for report output and database storage.
package model
