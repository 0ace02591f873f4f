package model

import (
	"time"
)

// ExtractReport is the main extraction result structure.
// It contains everything produced while processing one pasted input block.
//
// Design decision: We use a single struct rather than many small ones
// to simplify serialization and database storage. The Summary sub-struct
// groups the aggregated view for human-readable output.
type ExtractReport struct {
	// === Basic Information ===

	// Source identifies where the raw text came from (file path or "stdin").
	Source string `json:"source"`

	// Profile is the heuristics profile name applied to this input, if any.
	Profile string `json:"profile,omitempty"`

	// DateExtracted is the timestamp when the extraction was performed.
	DateExtracted time.Time `json:"date_extracted"`

	// === Input ===

	// RawText is the pasted block being processed.
	// Excluded from JSON: inputs reach tens of kilobytes and the outcomes
	// already capture everything the caller needs.
	RawText string `json:"-"`

	// LineCount is the number of non-empty lines after normalization.
	LineCount int `json:"line_count"`

	// AnchorCount is the number of year anchors detected.
	AnchorCount int `json:"anchor_count"`

	// === Results ===

	// Outcomes holds one entry per detected year anchor, in the order the
	// anchors appear in the input.
	Outcomes []Outcome `json:"outcomes,omitempty"`

	// Summary contains the aggregated findings for human-readable output.
	Summary *Summary `json:"summary,omitempty"`

	// === Run State ===

	// PerformedSteps lists the pipeline steps that were actually executed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true if the run was terminated by context cancellation.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error contains any error that occurred during processing.
	// Only set if a pipeline step failed.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewExtractReport creates a new report for the given source and raw input.
func NewExtractReport(source, rawText string) *ExtractReport {
	return &ExtractReport{
		Source:        source,
		RawText:       rawText,
		DateExtracted: time.Now(),
	}
}

// SetOutcomes records the ordered outcome list and the anchor count.
func (r *ExtractReport) SetOutcomes(outcomes []Outcome) {
	r.Outcomes = outcomes
	r.AnchorCount = len(outcomes)
}

// ExtractedCount returns the number of complete records in the report.
func (r *ExtractReport) ExtractedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.IsExtracted() {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of skipped anchors in the report.
func (r *ExtractReport) SkippedCount() int {
	return len(r.Outcomes) - r.ExtractedCount()
}
