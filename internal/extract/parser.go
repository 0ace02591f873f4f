package extract

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/uapcse/pubscan/internal/model"
)

// defaultConcurrency limits the per-anchor goroutines in ParseConcurrent.
// Windows are tiny; a small limit keeps scheduling overhead below the work.
const defaultConcurrency = 4

// Parser extracts publication records from pasted text blocks.
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	heuristics  Heuristics
	classifier  *Classifier
	concurrency int
}

// Option is a function that configures a Parser.
type Option func(*Parser)

// WithHeuristics replaces the default heuristic constants wholesale.
func WithHeuristics(h Heuristics) Option {
	return func(p *Parser) {
		p.heuristics = h
	}
}

// WithYearRange overrides the accepted year-anchor range.
func WithYearRange(minYear, maxYear int) Option {
	return func(p *Parser) {
		p.heuristics.YearMin = minYear
		p.heuristics.YearMax = maxYear
	}
}

// WithMinTitleLen overrides the minimum content-line length.
func WithMinTitleLen(n int) Option {
	return func(p *Parser) {
		p.heuristics.MinTitleLen = n
	}
}

// WithMetadataPrefixes overrides the metadata label list.
func WithMetadataPrefixes(prefixes []string) Option {
	return func(p *Parser) {
		p.heuristics.MetadataPrefixes = prefixes
	}
}

// WithConcurrency sets the goroutine limit for ParseConcurrent.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewParser creates a Parser with the given options applied over defaults.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		heuristics:  DefaultHeuristics(),
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.classifier = NewClassifier(p.heuristics)
	return p
}

// Heuristics returns the heuristics this parser was built with.
func (p *Parser) Heuristics() Heuristics {
	return p.heuristics
}

// Parse extracts publication outcomes from a raw pasted block.
//
// The returned list holds one outcome per detected year anchor, in the order
// the anchors appear in the input. Parse never fails: malformed input yields
// skipped outcomes, and an empty input yields an empty list.
func (p *Parser) Parse(raw string) []model.Outcome {
	lines, anchors := p.prepare(raw)

	outcomes := make([]model.Outcome, 0, len(anchors))
	for i := range anchors {
		outcomes = append(outcomes, p.resolve(lines, buildWindow(anchors, i)))
	}
	return outcomes
}

// ParseConcurrent is Parse with the per-anchor window scans fanned out
// across goroutines. Windows of distinct anchors are disjoint, so the scans
// share nothing; outcomes are written into their anchor's slot, which
// restores input order without sorting.
//
// The result is identical to Parse for the same input. The context only
// bounds the fan-out: on cancellation the remaining slots are filled
// sequentially so the outcome list stays complete.
func (p *Parser) ParseConcurrent(ctx context.Context, raw string) []model.Outcome {
	lines, anchors := p.prepare(raw)
	if len(anchors) == 0 {
		return []model.Outcome{}
	}

	outcomes := make([]model.Outcome, len(anchors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range anchors {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			outcomes[i] = p.resolve(lines, buildWindow(anchors, i))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancellation left gaps; the scans are cheap, finish them inline.
		for i := range anchors {
			if outcomes[i] == (model.Outcome{}) {
				outcomes[i] = p.resolve(lines, buildWindow(anchors, i))
			}
		}
	}

	return outcomes
}

// prepare normalizes and classifies the input and locates the anchors.
func (p *Parser) prepare(raw string) ([]ClassifiedLine, []Anchor) {
	rawLines := NormalizeLines(raw)

	lines := make([]ClassifiedLine, len(rawLines))
	for i, ln := range rawLines {
		lines[i] = p.classifier.Classify(ln)
	}

	return lines, findAnchors(lines)
}

// resolve runs the quartile and title scans for one window and assembles
// the outcome.
func (p *Parser) resolve(lines []ClassifiedLine, w Window) model.Outcome {
	quartile, quartileIdx, hasQuartile := scanQuartile(lines, w)

	start := w.Anchor.LineIndex - 1
	if hasQuartile {
		start = quartileIdx - 1
	}
	title, hasTitle := scanTitle(lines, w, start)

	return assemble(w.Anchor, quartile, hasQuartile, title, hasTitle)
}

// Parse extracts publication outcomes using the default heuristics.
// It is a convenience wrapper around NewParser().Parse for callers that
// need no configuration.
func Parse(raw string) []model.Outcome {
	return NewParser().Parse(raw)
}
