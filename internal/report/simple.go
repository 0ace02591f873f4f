package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/uapcse/pubscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting. Plain ASCII works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// It generates a Summary from the ExtractReport if not already present.
func (w *SimpleWriter) Write(report *model.ExtractReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeQuartiles(&sb, summary)
	w.writeRecords(&sb, summary)
	w.writeSkips(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         PUBSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:          %s\n", summary.Source)
	fmt.Fprintf(sb, "Extraction Date: %s\n", summary.DateExtracted.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Input Lines:     %d\n", summary.LineCount)

	switch {
	case summary.Cancelled:
		sb.WriteString("Status:          CANCELLED (partial results)\n")
	case summary.Error != "":
		fmt.Fprintf(sb, "Status:          ERROR - %s\n", summary.Error)
	default:
		sb.WriteString("Status:          Complete\n")
	}

	sb.WriteString("\n")
}

// writeCounts writes the outcome count section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("OUTCOME SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  EXTRACTED:        %d\n", summary.ExtractedCount)
	fmt.Fprintf(sb, "  MISSING_TITLE:    %d\n", summary.MissingTitleCount)
	fmt.Fprintf(sb, "  MISSING_QUARTILE: %d\n", summary.MissingQuartileCount)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:            %d anchors\n", summary.TotalAnchors())
	sb.WriteString("\n")
}

// writeQuartiles writes the quartile distribution section.
func (w *SimpleWriter) writeQuartiles(sb *strings.Builder, summary *model.Summary) {
	if len(summary.QuartileCounts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("QUARTILE DISTRIBUTION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, q := range []model.Quartile{
		model.QuartileQ1, model.QuartileQ2, model.QuartileQ3, model.QuartileQ4,
	} {
		n := summary.QuartileCounts[q]
		if n == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %s: %d\n", q, n)
	}
	sb.WriteString("\n")
}

// writeRecords writes the extracted records section.
func (w *SimpleWriter) writeRecords(sb *strings.Builder, summary *model.Summary) {
	if len(summary.Records) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EXTRACTED RECORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Records) == 0 {
		sb.WriteString("  No records extracted\n")
	} else {
		for _, r := range summary.Records {
			fmt.Fprintf(sb, "  [%d] [%s] %s\n", r.Year, r.Quartile, r.Title)
		}
	}
	sb.WriteString("\n")

	if w.verbose {
		w.writeYears(sb, summary)
	}
}

// writeYears writes the per-year record distribution, oldest first.
func (w *SimpleWriter) writeYears(sb *strings.Builder, summary *model.Summary) {
	if len(summary.YearCounts) == 0 {
		return
	}

	years := make([]int, 0, len(summary.YearCounts))
	for y := range summary.YearCounts {
		years = append(years, y)
	}
	sort.Ints(years)

	sb.WriteString("  Per year:\n")
	for _, y := range years {
		fmt.Fprintf(sb, "    %d: %d\n", y, summary.YearCounts[y])
	}
	sb.WriteString("\n")
}

// writeSkips writes the skipped anchors section.
func (w *SimpleWriter) writeSkips(sb *strings.Builder, summary *model.Summary) {
	if len(summary.Skips) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SKIPPED ANCHORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Skips) == 0 {
		sb.WriteString("  No anchors skipped\n")
	} else {
		for _, s := range summary.Skips {
			fmt.Fprintf(sb, "  [%d] %s\n", s.Year, s.Reason)
		}
	}
	sb.WriteString("\n")
}
