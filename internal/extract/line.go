package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RawLine is a single non-empty line of the normalized input block.
// Created once by NormalizeLines and never mutated afterwards.
type RawLine struct {
	// Text is the trimmed line content.
	Text string

	// Index is the 0-based position in the filtered line sequence.
	// Blank lines are removed before indexing, so indexes are contiguous.
	Index int
}

// spaceFolder maps the non-breaking space variants that web citation pages
// produce into plain ASCII spaces so that trimming and token matching behave.
var spaceFolder = strings.NewReplacer(
	"\u00a0", " ", // NO-BREAK SPACE
	"\u2007", " ", // FIGURE SPACE
	"\u202f", " ", // NARROW NO-BREAK SPACE
)

// NormalizeLines turns a raw pasted block into an ordered sequence of
// non-empty, trimmed lines.
//
// The block is NFC-normalized first: copy-pasted text frequently carries
// decomposed accents and exotic whitespace that would defeat the exact token
// matching the classifier relies on. Lines that are empty after trimming are
// discarded and the surviving lines are re-indexed contiguously.
//
// An empty input yields an empty sequence, not an error.
func NormalizeLines(raw string) []RawLine {
	if raw == "" {
		return nil
	}

	raw = norm.NFC.String(raw)
	raw = spaceFolder.Replace(raw)

	var lines []RawLine
	for _, text := range strings.Split(raw, "\n") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, RawLine{Text: text, Index: len(lines)})
	}

	return lines
}
