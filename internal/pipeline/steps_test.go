package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/uapcse/pubscan/internal/extract"
	"github.com/uapcse/pubscan/internal/model"
)

// TestStripHTMLStep tests the HTML stripping step.
func TestStripHTMLStep(t *testing.T) {
	t.Parallel()

	report := model.NewExtractReport("saved.html",
		"<html><body><div>A sufficiently long publication title</div><div>Q1</div><div>2023</div></body></html>")

	step := NewStripHTMLStep()
	if step.Name() != "strip_html" {
		t.Errorf("unexpected step name %q", step.Name())
	}
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if strings.Contains(report.RawText, "<div>") {
		t.Errorf("expected markup removed, got %q", report.RawText)
	}
	for _, want := range []string{"A sufficiently long publication title", "Q1", "2023"} {
		if !strings.Contains(report.RawText, want) {
			t.Errorf("expected %q preserved, got %q", want, report.RawText)
		}
	}
}

// TestExtractStep tests the extraction step.
func TestExtractStep(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"A title line long enough to be content",
		"Q1",
		"2023",
		"",
		"Another title line long enough as well",
		"Q2",
		"2022",
	}, "\n")
	report := model.NewExtractReport("stdin", raw)

	step := NewExtractStep(nil)
	if step.Name() != "extract" {
		t.Errorf("unexpected step name %q", step.Name())
	}
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if report.LineCount != 6 {
		t.Errorf("expected 6 lines, got %d", report.LineCount)
	}
	if report.AnchorCount != 2 {
		t.Errorf("expected 2 anchors, got %d", report.AnchorCount)
	}
	if report.ExtractedCount() != 2 {
		t.Errorf("expected 2 extracted records, got %d", report.ExtractedCount())
	}
}

// TestSummaryStep tests summary generation.
func TestSummaryStep(t *testing.T) {
	t.Parallel()

	report := model.NewExtractReport("stdin", "")
	report.SetOutcomes([]model.Outcome{
		model.Extracted("A publication title over the limit", 2023, model.QuartileQ1),
		model.Skipped(2022, model.SkipMissingQuartile),
	})

	step := NewSummaryStep()
	if step.Name() != "summarize" {
		t.Errorf("unexpected step name %q", step.Name())
	}
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if report.Summary == nil {
		t.Fatal("expected summary built")
	}
	if report.Summary.ExtractedCount != 1 || report.Summary.MissingQuartileCount != 1 {
		t.Errorf("unexpected summary counts: %+v", report.Summary)
	}
}

// TestDefaultPipeline tests the standard pipeline composition end to end.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("plain text input", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(nil)

		raw := "A title line long enough to be content\nQ3\n2021"
		report := model.NewExtractReport("stdin", raw)
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if report.ExtractedCount() != 1 {
			t.Errorf("expected 1 record, got %d", report.ExtractedCount())
		}
		if report.Summary == nil || report.Summary.QuartileCounts[model.QuartileQ3] != 1 {
			t.Errorf("unexpected summary: %+v", report.Summary)
		}
		want := []string{"extract", "summarize"}
		if len(report.PerformedSteps) != len(want) {
			t.Errorf("unexpected steps: %v", report.PerformedSteps)
		}
	})

	t.Run("html input with strip enabled", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(nil, WithPipelineStripHTML(true))

		raw := "<div>A title line long enough to be content</div><div>Q3</div><div>2021</div>"
		report := model.NewExtractReport("saved.html", raw)
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if report.ExtractedCount() != 1 {
			t.Errorf("expected 1 record from html input, got %d", report.ExtractedCount())
		}
		if report.PerformedSteps[0] != "strip_html" {
			t.Errorf("expected strip_html first, got %v", report.PerformedSteps)
		}
	})

	t.Run("custom heuristics apply", func(t *testing.T) {
		t.Parallel()

		h := extract.DefaultHeuristics()
		h.YearMin = 1990

		p := DefaultPipeline(nil, WithPipelineHeuristics(h))

		report := model.NewExtractReport("stdin", "An old enough publication title\nQ2\n1994")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if report.ExtractedCount() != 1 {
			t.Errorf("expected 1994 accepted under custom range, got %+v", report.Outcomes)
		}
	})
}
