package extract

import "testing"

// TestNormalizeLines tests raw-block normalization.
func TestNormalizeLines(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty sequence", func(t *testing.T) {
		t.Parallel()

		if got := NormalizeLines(""); len(got) != 0 {
			t.Errorf("expected no lines, got %d", len(got))
		}
	})

	t.Run("blank-only input yields empty sequence", func(t *testing.T) {
		t.Parallel()

		if got := NormalizeLines("\n   \n\t\n"); len(got) != 0 {
			t.Errorf("expected no lines, got %d", len(got))
		}
	})

	t.Run("trims and reindexes around blank lines", func(t *testing.T) {
		t.Parallel()

		lines := NormalizeLines("  first line  \n\n\tsecond line\n   \nthird line\n")

		want := []string{"first line", "second line", "third line"}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d", len(want), len(lines))
		}
		for i, w := range want {
			if lines[i].Text != w {
				t.Errorf("line %d: expected %q, got %q", i, w, lines[i].Text)
			}
			if lines[i].Index != i {
				t.Errorf("line %d: expected index %d, got %d", i, i, lines[i].Index)
			}
		}
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		t.Parallel()

		lines := NormalizeLines("first line\r\nsecond line\r\n")

		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if lines[0].Text != "first line" {
			t.Errorf("expected carriage return trimmed, got %q", lines[0].Text)
		}
	})

	t.Run("folds non-breaking spaces", func(t *testing.T) {
		t.Parallel()

		// NBSP-padded line as copied from a rendered web page.
		lines := NormalizeLines("\u00a0\u00a0Q1\u00a0\n")

		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
		if lines[0].Text != "Q1" {
			t.Errorf("expected NBSP trimmed away, got %q", lines[0].Text)
		}
	})
}
