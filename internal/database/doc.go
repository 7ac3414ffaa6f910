// Package database provides SQLite-based scan history for scholarshield.
//
// This package implements the HistoryDB, which stores one row per scan with
// the domain, time, total score, level and the full report as JSON. Page
// text is never stored; a BLAKE2b digest of it is kept instead so that a
// repeated paste of the same text can be recognized.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets the HTTP API read history while the CLI writes
package database
