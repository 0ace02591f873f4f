// Package model defines the core data structures used throughout pubscan.
//
// This package contains the following main types:
//   - Quartile: A journal-quality tier (Q1 highest to Q4 lowest)
//   - Outcome: The per-anchor parse result, either extracted or skipped
//   - ExtractReport: The main extraction result structure for one input
//   - Summary: A summarized, human-readable view of an extraction run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (extract, pipeline, report, database) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
