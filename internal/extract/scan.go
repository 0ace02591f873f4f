package extract

import "github.com/uapcse/pubscan/internal/model"

// Anchor marks a line identified as carrying the publication year for one
// candidate record. Anchors are ordered by ascending line index.
type Anchor struct {
	// LineIndex is the position of the anchor line in the normalized sequence.
	LineIndex int

	// Year is the publication year extracted from the line.
	Year int
}

// Window is the half-open line-index range available to one anchor's
// scanners: lines strictly between LowerBound and the anchor's own line.
// Windows of distinct anchors never overlap, which keeps every scan inside
// its own record even when that leaves a record incomplete.
type Window struct {
	// Anchor is the anchor this window belongs to.
	Anchor Anchor

	// LowerBound is the exclusive lower limit of the scan: the previous
	// anchor's line index, or -1 for the first anchor.
	LowerBound int
}

// findAnchors walks the classified lines in index order and produces one
// anchor per year line. Adjacent anchors are never merged; an anchor whose
// window turns out to be empty simply resolves to a skipped outcome later.
func findAnchors(lines []ClassifiedLine) []Anchor {
	var anchors []Anchor
	for _, cl := range lines {
		if cl.Kind == KindYearAnchor {
			anchors = append(anchors, Anchor{LineIndex: cl.Line.Index, Year: cl.Year})
		}
	}
	return anchors
}

// buildWindow computes the scan window for the anchor at position i of the
// ordered anchor list.
func buildWindow(anchors []Anchor, i int) Window {
	w := Window{Anchor: anchors[i], LowerBound: -1}
	if i > 0 {
		w.LowerBound = anchors[i-1].LineIndex
	}
	return w
}

// scanQuartile scans upward from the anchor (downward in index) for the
// nearest standalone quartile token inside the window.
//
// The scan stops immediately on the first quartile line. A year-anchor line
// inside the window should be impossible given how windows are built, but if
// boundary arithmetic ever lets one through the scan treats it as a hard stop
// rather than crossing into a neighboring record.
//
// Returns the quartile, the index of its line, and whether one was found.
func scanQuartile(lines []ClassifiedLine, w Window) (model.Quartile, int, bool) {
	for i := w.Anchor.LineIndex - 1; i > w.LowerBound; i-- {
		switch lines[i].Kind {
		case KindQuartile:
			return lines[i].Quartile, i, true
		case KindYearAnchor:
			return model.QuartileUnknown, 0, false
		}
	}
	return model.QuartileUnknown, 0, false
}

// scanTitle continues the upward scan from the given start index, skipping
// metadata lines, until it finds the first content line or exhausts the
// window. Only the single nearest content line is taken; wrapped multi-line
// titles are not reconstructed.
//
// Returns the title text and whether one was found.
func scanTitle(lines []ClassifiedLine, w Window, start int) (string, bool) {
	for i := start; i > w.LowerBound; i-- {
		switch lines[i].Kind {
		case KindContent:
			return lines[i].Line.Text, true
		case KindYearAnchor:
			return "", false
		}
		// Metadata and stray quartile tokens are skipped.
	}
	return "", false
}

// assemble validates the scan results for one anchor and produces its outcome.
// A record needs both a title and a quartile; a missing title takes priority
// over a missing quartile in the reported reason.
func assemble(anchor Anchor, quartile model.Quartile, hasQuartile bool, title string, hasTitle bool) model.Outcome {
	if !hasTitle {
		return model.Skipped(anchor.Year, model.SkipMissingTitle)
	}
	if !hasQuartile {
		return model.Skipped(anchor.Year, model.SkipMissingQuartile)
	}
	return model.Extracted(title, anchor.Year, quartile)
}
