// Package database provides SQLite-based storage for regreport.
//
// This package implements the ReportDB, which stores every rendered run:
//   - the fixed-width report text, zstd compressed
//   - the results table and Chow tables as JSON
//   - an xxhash64 digest of the text, to spot identical reruns
//
// Runs are keyed by version 7 UUIDs, which sort by creation time.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, with
// WAL mode enabled by default.
package database
