// Package log provides logging functionality with automatic truncation of
// oversized attribute values, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Truncation of long string attributes (raw pasted blocks, line text)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Truncation
//
// Extraction runs routinely carry multi-kilobyte pasted publication blocks
// through the pipeline. Logging such values whole makes debug output
// unreadable and bloats any stored logs. The TruncateHandler caps every
// string attribute at a fixed length and marks the cut, so debug logging of
// raw input stays safe to leave enabled.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("input read",
//	    "source", "scholar",
//	    "raw", rawBlock, // long values are cut at MaxAttrLen
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
