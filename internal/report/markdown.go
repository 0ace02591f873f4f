package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/uapcse/pubscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing: a department's
// publication review can be pasted straight into a wiki or pull request.
// The nao1215/markdown library gives type-safe generation with tables,
// GitHub-flavored alerts, and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ExtractReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeRecords(md, summary)
	w.writeSkips(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Pubscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + summary.Source + "`"},
			{"Extraction Date", summary.DateExtracted.Format("2006-01-02 15:04:05 MST")},
			{"Input Lines", strconv.Itoa(summary.LineCount)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.Summary) string {
	if summary.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if summary.Error != "" {
		return "❌ Error - " + summary.Error
	}
	return "✅ Complete"
}

// writeCounts writes the outcome summary section.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Outcome Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🟢 Extracted", strconv.Itoa(summary.ExtractedCount)},
			{"🟠 Missing Title", strconv.Itoa(summary.MissingTitleCount)},
			{"🟡 Missing Quartile", strconv.Itoa(summary.MissingQuartileCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalAnchors()) + "**"},
		},
	})
	md.PlainText("")

	if summary.ExtractedCount > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the quartile distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Quartile Distribution"),
		piechart.WithShowData(true),
	)

	for _, q := range []model.Quartile{
		model.QuartileQ1, model.QuartileQ2, model.QuartileQ3, model.QuartileQ4,
	} {
		if n := summary.QuartileCounts[q]; n > 0 {
			chart.LabelAndIntValue(q.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the outcome counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.TotalAnchors() == 0:
		md.Note("No year anchors were found in the input.")
	case summary.HasSkips():
		md.Warningf(
			"%d entr%s could not be fully extracted and need manual review.",
			summary.MissingTitleCount+summary.MissingQuartileCount,
			pluralSuffix(summary.MissingTitleCount+summary.MissingQuartileCount),
		)
	default:
		md.Tip("All entries were extracted completely.")
	}
	md.PlainText("")
}

// pluralSuffix returns the entry/entries suffix for n.
func pluralSuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// writeRecords writes the extracted records table, plus the per-year
// distribution when records exist.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Extracted Records")
	md.PlainText("")

	if len(summary.Records) == 0 {
		md.PlainText("No records extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Records))
	for i, r := range summary.Records {
		rows[i] = []string{strconv.Itoa(r.Year), r.Quartile.String(), r.Title}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Quartile", "Title"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeYears(md, summary)
}

// writeYears writes the per-year distribution table, oldest first.
func (w *MarkdownWriter) writeYears(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.YearCounts) == 0 {
		return
	}

	years := make([]int, 0, len(summary.YearCounts))
	for y := range summary.YearCounts {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([][]string, len(years))
	for i, y := range years {
		rows[i] = []string{strconv.Itoa(y), strconv.Itoa(summary.YearCounts[y])}
	}

	md.H3("Entries per Year")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Entries"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSkips writes the skipped anchors table.
func (w *MarkdownWriter) writeSkips(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.Skips) == 0 {
		return
	}

	md.H2("Skipped Anchors")
	md.PlainText("")

	rows := make([][]string, len(summary.Skips))
	for i, s := range summary.Skips {
		rows[i] = []string{strconv.Itoa(s.Year), s.Reason.String()}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}
