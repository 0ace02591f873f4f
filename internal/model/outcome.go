package model

// quartileUnknownStr is the string representation for unknown quartile values.
const quartileUnknownStr = "unknown"

// Quartile represents a journal-quality tier reported by citation sources.
// Q1 is the highest tier, Q4 the lowest.
type Quartile string

// Quartile constants.
const (
	// QuartileUnknown represents a missing or unrecognized quartile.
	QuartileUnknown Quartile = ""
	// QuartileQ1 represents the top journal tier.
	QuartileQ1 Quartile = "Q1"
	// QuartileQ2 represents the second journal tier.
	QuartileQ2 Quartile = "Q2"
	// QuartileQ3 represents the third journal tier.
	QuartileQ3 Quartile = "Q3"
	// QuartileQ4 represents the bottom journal tier.
	QuartileQ4 Quartile = "Q4"
)

// String returns the string representation of the Quartile.
func (q Quartile) String() string {
	if q == QuartileUnknown {
		return quartileUnknownStr
	}
	return string(q)
}

// IsValid returns true if this is a known quartile tier.
func (q Quartile) IsValid() bool {
	switch q {
	case QuartileQ1, QuartileQ2, QuartileQ3, QuartileQ4:
		return true
	default:
		return false
	}
}

// Rank returns the numeric tier (1 for Q1 through 4 for Q4).
// Returns 0 for QuartileUnknown.
func (q Quartile) Rank() int {
	switch q {
	case QuartileQ1:
		return 1
	case QuartileQ2:
		return 2
	case QuartileQ3:
		return 3
	case QuartileQ4:
		return 4
	default:
		return 0
	}
}

// ParseQuartile converts a string to a Quartile.
// Only the exact standalone tokens Q1..Q4 are recognized; composite strings
// such as "SJR Q1; 0.849" deliberately do not parse.
func ParseQuartile(s string) Quartile {
	switch s {
	case "Q1":
		return QuartileQ1
	case "Q2":
		return QuartileQ2
	case "Q3":
		return QuartileQ3
	case "Q4":
		return QuartileQ4
	default:
		return QuartileUnknown
	}
}

// SkipReason explains why an anchor produced no extracted record.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() method provides the stable
// reason codes used in reports and stored runs.
type SkipReason int

const (
	// SkipMissingTitle indicates no content line was found in the anchor's window.
	SkipMissingTitle SkipReason = iota

	// SkipMissingQuartile indicates a title was found but no quartile token
	// was present in the anchor's window.
	SkipMissingQuartile
)

// String returns the stable reason code for the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipMissingTitle:
		return "MISSING_TITLE"
	case SkipMissingQuartile:
		return "MISSING_QUARTILE"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the per-anchor parse result. Every year anchor detected in the
// input produces exactly one Outcome: either a fully extracted publication
// record or a skip with a diagnostic reason.
//
// Design decision: We use a single struct with a Skipped flag rather than an
// interface with two implementations because outcomes are serialized to JSON
// and stored in the database; a flat struct keeps both trivial.
type Outcome struct {
	// Year is the publication year taken from the anchor line.
	// Always set, for extracted and skipped outcomes alike.
	Year int `json:"year"`

	// Title is the extracted publication title.
	// Empty when the outcome is skipped with MISSING_TITLE.
	Title string `json:"title,omitempty"`

	// Quartile is the extracted journal tier.
	// QuartileUnknown when the outcome is skipped with MISSING_QUARTILE.
	Quartile Quartile `json:"quartile,omitempty"`

	// Skipped is true when the anchor's window did not yield a complete record.
	Skipped bool `json:"skipped,omitempty"`

	// Reason explains the skip. Only meaningful when Skipped is true.
	Reason SkipReason `json:"-"`

	// ReasonText is the string form of Reason for serialization.
	ReasonText string `json:"reason,omitempty"`
}

// Extracted creates a complete outcome for a validated record.
func Extracted(title string, year int, quartile Quartile) Outcome {
	return Outcome{
		Year:     year,
		Title:    title,
		Quartile: quartile,
	}
}

// Skipped creates a skip outcome for an anchor whose window lacked a
// title or quartile.
func Skipped(year int, reason SkipReason) Outcome {
	return Outcome{
		Year:       year,
		Skipped:    true,
		Reason:     reason,
		ReasonText: reason.String(),
	}
}

// IsExtracted returns true if this outcome carries a complete record.
func (o Outcome) IsExtracted() bool {
	return !o.Skipped
}
