package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration. They are
// package-level sentinels so callers can use errors.Is() for programmatic
// handling while still getting human-readable messages.
var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no files get processed at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidYearRange is returned when the configured minimum year is
	// greater than the maximum year. No line could ever match such a range.
	ErrInvalidYearRange = errors.New("invalid year range: minimum year exceeds maximum year")

	// ErrInvalidMinTitleLen is returned when the minimum title length is
	// negative. Use 0 to fall back to the profile or built-in default.
	ErrInvalidMinTitleLen = errors.New("invalid minimum title length: must be non-negative")

	// ErrInvalidConcurrency is returned when the parser concurrency is
	// negative. Use 0 to fall back to the default fan-out.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")
)
