package main

import (
	"testing"
	"time"

	"github.com/uapcse/pubscan/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [source]" {
			t.Errorf("expected use 'history [source]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has list-sources flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list-sources")
		if flag == nil {
			t.Fatal("expected list-sources flag")
		}
		if flag.Shorthand != "L" {
			t.Errorf("expected shorthand 'L', got %q", flag.Shorthand)
		}
	})

	t.Run("has with-run-id flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("with-run-id")
		if flag == nil {
			t.Fatal("expected with-run-id flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has since flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("since")
		if flag == nil {
			t.Fatal("expected since flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has output format flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
		if cmd.Flags().Lookup("markdown") == nil {
			t.Error("expected markdown flag")
		}
	})
}

// TestFormatOutcomeSummary tests the outcome summary formatting.
func TestFormatOutcomeSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary map[string]int
		want    string
	}{
		{
			name:    "nil summary",
			summary: nil,
			want:    "N/A",
		},
		{
			name:    "empty summary",
			summary: map[string]int{},
			want:    noRecordsLabel,
		},
		{
			name:    "extracted only",
			summary: map[string]int{"extracted": 16},
			want:    "E:16",
		},
		{
			name: "all outcome kinds",
			summary: map[string]int{
				"extracted":        16,
				"missing_title":    2,
				"missing_quartile": 1,
			},
			want: "E:16 MT:2 MQ:1",
		},
		{
			name:    "zero counts omitted",
			summary: map[string]int{"extracted": 3, "missing_title": 0},
			want:    "E:3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatOutcomeSummary(tt.summary); got != tt.want {
				t.Errorf("formatOutcomeSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

// historyRun builds a report with the given outcomes for comparison tests.
func historyRun(date time.Time, outcomes []model.Outcome) *model.ExtractReport {
	r := model.NewExtractReport("scholar.txt", "")
	r.DateExtracted = date
	r.SetOutcomes(outcomes)
	return r
}

// TestCompareRuns tests the run comparison logic.
func TestCompareRuns(t *testing.T) {
	t.Parallel()

	previous := historyRun(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), []model.Outcome{
		model.Extracted("Adaptive resource allocation for serverless platforms", 2023, model.QuartileQ1),
		model.Extracted("Graph-based community detection in citation networks", 2022, model.QuartileQ3),
		model.Extracted("Removed publication about legacy systems", 2020, model.QuartileQ4),
		model.Skipped(2019, model.SkipMissingTitle),
	})
	current := historyRun(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), []model.Outcome{
		model.Extracted("Adaptive resource allocation for serverless platforms", 2023, model.QuartileQ1),
		model.Extracted("Graph-based community detection in citation networks", 2022, model.QuartileQ2),
		model.Extracted("A brand new study on quartile dynamics", 2026, model.QuartileQ1),
	})

	result := compareRuns(previous, current)

	t.Run("detects new records", func(t *testing.T) {
		t.Parallel()
		if len(result.NewRecords) != 1 {
			t.Fatalf("expected 1 new record, got %d", len(result.NewRecords))
		}
		if result.NewRecords[0].Title != "A brand new study on quartile dynamics" {
			t.Errorf("unexpected new record: %+v", result.NewRecords[0])
		}
	})

	t.Run("detects removed records", func(t *testing.T) {
		t.Parallel()
		if len(result.RemovedRecords) != 1 {
			t.Fatalf("expected 1 removed record, got %d", len(result.RemovedRecords))
		}
		if result.RemovedRecords[0].Title != "Removed publication about legacy systems" {
			t.Errorf("unexpected removed record: %+v", result.RemovedRecords[0])
		}
	})

	t.Run("detects quartile changes", func(t *testing.T) {
		t.Parallel()
		if len(result.QuartileChanges) != 1 {
			t.Fatalf("expected 1 quartile change, got %d", len(result.QuartileChanges))
		}
		c := result.QuartileChanges[0]
		if c.PreviousQuartile != model.QuartileQ3 || c.CurrentQuartile != model.QuartileQ2 {
			t.Errorf("unexpected quartile change: %+v", c)
		}
	})

	t.Run("counts unchanged records", func(t *testing.T) {
		t.Parallel()
		if result.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged record, got %d", result.UnchangedCount)
		}
	})

	t.Run("skipped anchors excluded from record diff", func(t *testing.T) {
		t.Parallel()
		for _, o := range result.RemovedRecords {
			if o.Skipped {
				t.Errorf("skipped outcome leaked into removed records: %+v", o)
			}
		}
	})

	t.Run("computes run stats", func(t *testing.T) {
		t.Parallel()
		if result.PreviousRun.ExtractedCount != 3 || result.PreviousRun.MissingTitleCount != 1 {
			t.Errorf("unexpected previous stats: %+v", result.PreviousRun)
		}
		if result.CurrentRun.ExtractedCount != 3 || result.CurrentRun.MissingTitleCount != 0 {
			t.Errorf("unexpected current stats: %+v", result.CurrentRun)
		}
	})

	t.Run("computes trend", func(t *testing.T) {
		t.Parallel()
		if result.Trend.Direction != trendUnchanged {
			t.Errorf("expected unchanged trend, got %q", result.Trend.Direction)
		}
		if result.Trend.SkippedDelta != -1 {
			t.Errorf("expected skipped delta -1, got %d", result.Trend.SkippedDelta)
		}
	})
}

// TestCalculateTrend tests the trend direction calculation.
func TestCalculateTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous RunStats
		current  RunStats
		want     string
	}{
		{
			name:     "grew",
			previous: RunStats{ExtractedCount: 10},
			current:  RunStats{ExtractedCount: 12},
			want:     trendGrew,
		},
		{
			name:     "shrank",
			previous: RunStats{ExtractedCount: 10},
			current:  RunStats{ExtractedCount: 8},
			want:     trendShrank,
		},
		{
			name:     "unchanged",
			previous: RunStats{ExtractedCount: 10},
			current:  RunStats{ExtractedCount: 10},
			want:     trendUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			trend := calculateTrend(tt.previous, tt.current)
			if trend.Direction != tt.want {
				t.Errorf("calculateTrend() direction = %q, want %q", trend.Direction, tt.want)
			}
		})
	}
}

// TestRecordKey tests the comparison key.
func TestRecordKey(t *testing.T) {
	t.Parallel()

	a := model.Extracted("Same title", 2023, model.QuartileQ1)
	b := model.Extracted("Same title", 2023, model.QuartileQ3)
	if recordKey(a) != recordKey(b) {
		t.Error("expected identical keys for same title and year regardless of quartile")
	}

	c := model.Extracted("Same title", 2024, model.QuartileQ1)
	if recordKey(a) == recordKey(c) {
		t.Error("expected different keys for different years")
	}
}

// TestFormatDelta tests delta formatting.
func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{3, "+3"},
		{-2, "-2"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

// TestFormatTrendDirection tests trend direction formatting.
func TestFormatTrendDirection(t *testing.T) {
	t.Parallel()

	if got := formatTrendDirection(trendGrew); got != "GREW (more complete records)" {
		t.Errorf("unexpected grew label: %q", got)
	}
	if got := formatTrendDirection(trendShrank); got != "SHRANK (fewer complete records)" {
		t.Errorf("unexpected shrank label: %q", got)
	}
	if got := formatTrendDirection(trendUnchanged); got != "UNCHANGED" {
		t.Errorf("unexpected unchanged label: %q", got)
	}
	if got := formatTrendDirection("bogus"); got != "UNCHANGED" {
		t.Errorf("unexpected fallback label: %q", got)
	}
}

// TestRunHistoryCmdRequiresSource tests that history without a source errors.
func TestRunHistoryCmdRequiresSource(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"history"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error when no source is given")
	}
}
