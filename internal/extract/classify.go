package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/uapcse/pubscan/internal/model"
)

// Default heuristic constants.
// These values reflect the pasted blocks the tool was built against; the
// prefix list in particular is expected to grow as new citation sources
// appear, which is why all of them can be overridden via configuration.
const (
	// DefaultYearMin is the lowest publication year accepted as an anchor.
	DefaultYearMin = 2000

	// DefaultYearMax is the highest publication year accepted as an anchor.
	DefaultYearMax = 2099

	// DefaultMinTitleLen is the minimum trimmed length for a line to count
	// as content. Shorter lines are short codes or metric values, not titles.
	DefaultMinTitleLen = 10
)

// DefaultMetadataPrefixes lists the journal-metric labels that mark a line
// as auxiliary metadata rather than a title.
var DefaultMetadataPrefixes = []string{"ABS", "ABDC", "SJR", "SNIP", "CiteScore"}

// naToken is the placeholder citation sources emit for absent metrics.
const naToken = "NA"

// yearPattern matches 4-digit number tokens anywhere in a line.
var yearPattern = regexp.MustCompile(`\d{4}`)

// Kind classifies a single input line.
type Kind int

const (
	// KindContent is the fallback classification; content lines are title
	// candidates.
	KindContent Kind = iota

	// KindYearAnchor marks a line carrying a publication year.
	KindYearAnchor

	// KindQuartile marks a standalone quartile token line (Q1..Q4).
	KindQuartile

	// KindMetadata marks auxiliary citation statistics and placeholders
	// that must be skipped when searching for a title.
	KindMetadata
)

// String returns a human-readable name for the line kind.
func (k Kind) String() string {
	switch k {
	case KindYearAnchor:
		return "year_anchor"
	case KindQuartile:
		return "quartile"
	case KindMetadata:
		return "metadata"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// ClassifiedLine pairs a raw line with its classification.
// Derived on demand; never stored beyond a single parse call.
type ClassifiedLine struct {
	// Line is the underlying normalized line.
	Line RawLine

	// Kind is the classification result.
	Kind Kind

	// Year is the extracted publication year.
	// Only meaningful when Kind is KindYearAnchor.
	Year int

	// Quartile is the extracted tier.
	// Only meaningful when Kind is KindQuartile.
	Quartile model.Quartile
}

// Heuristics holds the tunable constants the classifier works from.
// The zero value is not usable; obtain one from DefaultHeuristics and
// override fields as needed.
type Heuristics struct {
	// YearMin is the inclusive lower bound for year anchors.
	YearMin int

	// YearMax is the inclusive upper bound for year anchors.
	YearMax int

	// MinTitleLen is the minimum trimmed rune count for a content line.
	MinTitleLen int

	// MetadataPrefixes are labels that mark a line as metadata when the
	// line begins with one of them.
	MetadataPrefixes []string
}

// DefaultHeuristics returns the heuristics the extractor ships with.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		YearMin:          DefaultYearMin,
		YearMax:          DefaultYearMax,
		MinTitleLen:      DefaultMinTitleLen,
		MetadataPrefixes: DefaultMetadataPrefixes,
	}
}

// Classifier maps lines to their kind. It is stateless: classification of a
// line never consults neighboring lines, so the same line always classifies
// the same way regardless of position.
type Classifier struct {
	heuristics Heuristics
}

// NewClassifier creates a Classifier using the given heuristics.
func NewClassifier(h Heuristics) *Classifier {
	return &Classifier{heuristics: h}
}

// Classify determines the kind of a single line.
//
// Rules apply in priority order:
//  1. A line that is exactly one of Q1..Q4 is a quartile token. Composite
//     lines such as "SJR Q1; 0.849" do not qualify.
//  2. A line containing a 4-digit number within the configured year range is
//     a year anchor. When several in-range numbers occur, the rightmost one
//     wins; pasted rows like "48\t2023" put the citation count first and the
//     year last.
//  3. "NA" placeholders, known metric labels, all-numeric/punctuation lines,
//     and lines shorter than the content threshold are metadata.
//  4. Everything else is content.
func (c *Classifier) Classify(line RawLine) ClassifiedLine {
	cl := ClassifiedLine{Line: line}

	if q := model.ParseQuartile(line.Text); q.IsValid() {
		cl.Kind = KindQuartile
		cl.Quartile = q
		return cl
	}

	if year, ok := c.lastYearInRange(line.Text); ok {
		cl.Kind = KindYearAnchor
		cl.Year = year
		return cl
	}

	if c.isMetadata(line.Text) {
		cl.Kind = KindMetadata
		return cl
	}

	cl.Kind = KindContent
	return cl
}

// lastYearInRange returns the rightmost 4-digit token within the configured
// year range, if any.
func (c *Classifier) lastYearInRange(text string) (int, bool) {
	matches := yearPattern.FindAllString(text, -1)
	if matches == nil {
		return 0, false
	}

	year := 0
	found := false
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if n >= c.heuristics.YearMin && n <= c.heuristics.YearMax {
			year = n
			found = true
		}
	}
	return year, found
}

// isMetadata reports whether the line carries auxiliary citation statistics
// rather than title material.
func (c *Classifier) isMetadata(text string) bool {
	if text == naToken {
		return true
	}

	for _, prefix := range c.heuristics.MetadataPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}

	if !containsLetter(text) {
		return true
	}

	return utf8.RuneCountInString(text) < c.heuristics.MinTitleLen
}

// containsLetter reports whether the string has at least one letter rune.
// Lines made solely of digits, punctuation, and symbols are metric values.
func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
