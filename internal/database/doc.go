// Package database provides SQLite-based persistence for extraction runs.
//
// Each run stores the full report as JSON plus one row per outcome in the
// publications table, so past runs can be listed, re-rendered, and compared
// without keeping the original pasted input around.
//
// The database uses modernc.org/sqlite, a pure-Go driver, so no cgo is
// required to build or cross-compile the tool.
package database
