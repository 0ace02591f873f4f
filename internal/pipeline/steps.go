package pipeline

import (
	"context"
	"log/slog"

	"github.com/uapcse/pubscan/internal/extract"
	"github.com/uapcse/pubscan/internal/model"
)

// StripHTMLStep converts HTML input to plain text before extraction.
// Inputs saved directly from a citation site arrive as markup rather than a
// clean paste; this step flattens them into the one-field-per-line form the
// extractor expects. It is only added to the pipeline when requested.
type StripHTMLStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// StripHTMLStepOption configures a StripHTMLStep.
type StripHTMLStepOption func(*StripHTMLStep)

// WithStripHTMLLogger sets a custom logger for the strip step.
func WithStripHTMLLogger(logger *slog.Logger) StripHTMLStepOption {
	return func(s *StripHTMLStep) {
		s.logger = logger
	}
}

// NewStripHTMLStep creates a new HTML stripping step.
func NewStripHTMLStep(opts ...StripHTMLStepOption) *StripHTMLStep {
	s := &StripHTMLStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *StripHTMLStep) Name() string {
	return "strip_html"
}

// Do replaces the report's raw text with its plain-text rendering.
func (s *StripHTMLStep) Do(_ context.Context, report *model.ExtractReport) error {
	before := len(report.RawText)
	report.RawText = extract.StripHTML(report.RawText)

	s.logger.Debug("html stripped",
		"source", report.Source,
		"bytes_before", before,
		"bytes_after", len(report.RawText),
	)
	return nil
}

// ExtractStep runs the record extraction over the report's raw text.
// This is the core step of every run; it fills the report's outcome list
// and input statistics.
type ExtractStep struct {
	// parser performs the actual extraction.
	parser *extract.Parser

	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a new extraction step using the given parser.
// A nil parser gets the default heuristics.
func NewExtractStep(parser *extract.Parser, opts ...ExtractStepOption) *ExtractStep {
	if parser == nil {
		parser = extract.NewParser()
	}

	s := &ExtractStep{
		parser: parser,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extraction step.
func (s *ExtractStep) Do(ctx context.Context, report *model.ExtractReport) error {
	report.LineCount = len(extract.NormalizeLines(report.RawText))
	report.SetOutcomes(s.parser.ParseConcurrent(ctx, report.RawText))

	s.logger.Debug("extraction completed",
		"source", report.Source,
		"lines", report.LineCount,
		"anchors", report.AnchorCount,
		"extracted", report.ExtractedCount(),
		"skipped", report.SkippedCount(),
	)
	return nil
}

// SummaryStep builds the aggregated summary from the report's outcomes.
// It runs last so the summary reflects everything earlier steps recorded.
type SummaryStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// SummaryStepOption configures a SummaryStep.
type SummaryStepOption func(*SummaryStep)

// WithSummaryLogger sets a custom logger for the summary step.
func WithSummaryLogger(logger *slog.Logger) SummaryStepOption {
	return func(s *SummaryStep) {
		s.logger = logger
	}
}

// NewSummaryStep creates a new summary step.
func NewSummaryStep(opts ...SummaryStepOption) *SummaryStep {
	s := &SummaryStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summarize"
}

// Do builds the report summary.
func (s *SummaryStep) Do(_ context.Context, report *model.ExtractReport) error {
	report.Summary = model.NewSummary(report)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// StripHTML prepends an HTML stripping step.
	StripHTML bool

	// Heuristics are the extraction constants to use.
	Heuristics extract.Heuristics

	// Concurrency is the parser's window-scan fan-out. Zero uses the
	// parser default.
	Concurrency int
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineStripHTML enables the HTML stripping step.
func WithPipelineStripHTML(strip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.StripHTML = strip
	}
}

// WithPipelineHeuristics sets the extraction heuristics.
func WithPipelineHeuristics(h extract.Heuristics) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Heuristics = h
	}
}

// WithPipelineConcurrency sets the parser's window-scan fan-out.
func WithPipelineConcurrency(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Concurrency = n
	}
}

// DefaultPipeline creates a pipeline with the standard steps configured:
// optional HTML stripping, extraction, and summary generation. This is the
// pipeline every CLI run uses; building it here keeps the ordering in one
// place and the command wiring small.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineHeuristics, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Heuristics: extract.DefaultHeuristics(),
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	parserOpts := []extract.Option{extract.WithHeuristics(cfg.Heuristics)}
	if cfg.Concurrency > 0 {
		parserOpts = append(parserOpts, extract.WithConcurrency(cfg.Concurrency))
	}

	if cfg.StripHTML {
		p.AddStep(NewStripHTMLStep())
	}
	p.AddSteps(
		NewExtractStep(extract.NewParser(parserOpts...)),
		NewSummaryStep(),
	)

	return p
}
