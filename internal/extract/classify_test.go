package extract

import (
	"testing"

	"github.com/uapcse/pubscan/internal/model"
)

// classifyText is a test helper that classifies a single line of text.
func classifyText(c *Classifier, text string) ClassifiedLine {
	return c.Classify(RawLine{Text: text, Index: 0})
}

// TestClassifierClassify tests the line classification rules.
func TestClassifierClassify(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultHeuristics())

	tests := []struct {
		name         string
		text         string
		wantKind     Kind
		wantYear     int
		wantQuartile model.Quartile
	}{
		{name: "standalone quartile token", text: "Q1", wantKind: KindQuartile, wantQuartile: model.QuartileQ1},
		{name: "standalone Q4", text: "Q4", wantKind: KindQuartile, wantQuartile: model.QuartileQ4},
		{name: "composite quartile line is not a quartile", text: "SJR Q1; 0.849", wantKind: KindMetadata},
		{name: "plain year", text: "2023", wantKind: KindYearAnchor, wantYear: 2023},
		{name: "citation count before year takes last number", text: "48\t2023", wantKind: KindYearAnchor, wantYear: 2023},
		{name: "two in-range years take the rightmost", text: "2021 2023", wantKind: KindYearAnchor, wantYear: 2023},
		{name: "out-of-range number is not a year", text: "1999", wantKind: KindMetadata},
		{name: "year embedded in sentence", text: "Accepted for publication in late 2024 issue", wantKind: KindYearAnchor, wantYear: 2024},
		{name: "NA placeholder", text: "NA", wantKind: KindMetadata},
		{name: "ABS metric label", text: "ABS 2", wantKind: KindMetadata},
		{name: "ABDC metric label", text: "ABDC B-ranked journal list entry", wantKind: KindMetadata},
		{name: "SJR metric label", text: "SJR 0.849", wantKind: KindMetadata},
		{name: "SNIP metric label", text: "SNIP 1.204", wantKind: KindMetadata},
		{name: "CiteScore metric label", text: "CiteScore 3.4", wantKind: KindMetadata},
		{name: "digits and punctuation only", text: "0.849; 12/3", wantKind: KindMetadata},
		{name: "short code below content threshold", text: "IEEE TPDS", wantKind: KindMetadata},
		{name: "title-length line is content", text: "Energy-aware scheduling in edge clouds", wantKind: KindContent},
		{name: "exactly ten characters is content", text: "abcde fghi", wantKind: KindContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyText(c, tt.text)

			if got.Kind != tt.wantKind {
				t.Fatalf("Classify(%q).Kind = %v, want %v", tt.text, got.Kind, tt.wantKind)
			}
			if tt.wantKind == KindYearAnchor && got.Year != tt.wantYear {
				t.Errorf("Classify(%q).Year = %d, want %d", tt.text, got.Year, tt.wantYear)
			}
			if tt.wantKind == KindQuartile && got.Quartile != tt.wantQuartile {
				t.Errorf("Classify(%q).Quartile = %v, want %v", tt.text, got.Quartile, tt.wantQuartile)
			}
		})
	}
}

// TestClassifierCustomHeuristics tests that overridden constants are honored.
func TestClassifierCustomHeuristics(t *testing.T) {
	t.Parallel()

	t.Run("extended year range", func(t *testing.T) {
		t.Parallel()

		h := DefaultHeuristics()
		h.YearMin = 1990
		c := NewClassifier(h)

		got := classifyText(c, "1995")
		if got.Kind != KindYearAnchor || got.Year != 1995 {
			t.Errorf("expected year anchor 1995, got %v/%d", got.Kind, got.Year)
		}
	})

	t.Run("extra metadata prefix", func(t *testing.T) {
		t.Parallel()

		h := DefaultHeuristics()
		h.MetadataPrefixes = append([]string{"FWCI"}, h.MetadataPrefixes...)
		c := NewClassifier(h)

		got := classifyText(c, "FWCI weighted citation impact")
		if got.Kind != KindMetadata {
			t.Errorf("expected metadata, got %v", got.Kind)
		}
	})

	t.Run("lower content threshold", func(t *testing.T) {
		t.Parallel()

		h := DefaultHeuristics()
		h.MinTitleLen = 5
		c := NewClassifier(h)

		got := classifyText(c, "IP mgmt")
		if got.Kind != KindContent {
			t.Errorf("expected content at lowered threshold, got %v", got.Kind)
		}
	})
}

// TestKindString tests the kind names used in logs.
func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindYearAnchor, "year_anchor"},
		{KindQuartile, "quartile"},
		{KindMetadata, "metadata"},
		{KindContent, "content"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
