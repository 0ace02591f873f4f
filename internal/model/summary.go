package model

import "time"

// Summary is a summarized, human-readable view of an extraction run.
// It aggregates outcome counts and distributions for quick review.
//
// Design decision: We create a separate summary rather than printing parts
// of ExtractReport directly because:
// 1. It provides a consistent, curated view for every output format
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from extraction results
type Summary struct {
	// Source identifies the processed input.
	Source string `json:"source"`

	// DateExtracted is when the extraction was performed.
	DateExtracted time.Time `json:"date_extracted"`

	// === Counts ===

	// ExtractedCount is the number of complete records.
	ExtractedCount int `json:"extracted_count"`

	// MissingTitleCount is the number of anchors skipped for lack of a title.
	MissingTitleCount int `json:"missing_title_count"`

	// MissingQuartileCount is the number of anchors skipped for lack of a quartile.
	MissingQuartileCount int `json:"missing_quartile_count"`

	// === Distributions ===

	// QuartileCounts maps each quartile tier to its record count.
	QuartileCounts map[Quartile]int `json:"quartile_counts,omitempty"`

	// YearCounts maps each publication year to its record count.
	// Skipped anchors are included; their year is still known.
	YearCounts map[int]int `json:"year_counts,omitempty"`

	// === Records ===

	// Records contains the extracted publication records in input order.
	Records []Outcome `json:"records,omitempty"`

	// Skips contains the skipped outcomes in input order.
	Skips []Outcome `json:"skips,omitempty"`

	// === Input Statistics ===

	// LineCount is the number of non-empty input lines.
	LineCount int `json:"line_count"`

	// Cancelled indicates the run was terminated early.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error contains any error message if a pipeline step failed.
	Error string `json:"error,omitempty"`
}

// NewSummary builds a Summary from an extraction report.
func NewSummary(report *ExtractReport) *Summary {
	s := &Summary{
		Source:         report.Source,
		DateExtracted:  report.DateExtracted,
		QuartileCounts: make(map[Quartile]int),
		YearCounts:     make(map[int]int),
		LineCount:      report.LineCount,
		Cancelled:      report.Cancelled,
	}
	if report.Error != nil {
		s.Error = report.Error.Error()
	}

	for _, o := range report.Outcomes {
		s.YearCounts[o.Year]++
		if o.IsExtracted() {
			s.ExtractedCount++
			s.QuartileCounts[o.Quartile]++
			s.Records = append(s.Records, o)
			continue
		}

		s.Skips = append(s.Skips, o)
		switch o.Reason {
		case SkipMissingTitle:
			s.MissingTitleCount++
		case SkipMissingQuartile:
			s.MissingQuartileCount++
		}
	}

	return s
}

// TotalAnchors returns the total number of anchors the run produced
// outcomes for.
func (s *Summary) TotalAnchors() int {
	return s.ExtractedCount + s.MissingTitleCount + s.MissingQuartileCount
}

// HasSkips returns true if any anchor was skipped.
func (s *Summary) HasSkips() bool {
	return s.MissingTitleCount > 0 || s.MissingQuartileCount > 0
}
