package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uapcse/pubscan/internal/model"
)

// Input is one raw publication block queued for batch extraction.
type Input struct {
	// Source labels where the block came from (file path or "stdin").
	Source string

	// RawText is the block to extract from.
	RawText string
}

// BatchProcessor handles concurrent processing of multiple input blocks.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Batch handling lives outside Pipeline so the pipeline stays focused on
// single-input execution and batch strategies can evolve independently.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each input.
	// A factory ensures each input gets a fresh pipeline instance, so
	// state never leaks between runs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent extractions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports. Access is synchronized via mutex.
	results []*model.ExtractReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent extractions.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each input to create a fresh
// pipeline instance.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ExtractReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch extracts from multiple input blocks concurrently.
// It respects the configured concurrency limit and context cancellation.
// Results are returned in input order regardless of completion order.
//
// All reports are returned, even for inputs that failed; the report carries
// the error information. The error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []Input) ([]*model.ExtractReport, error) {
	bp.logger.Info("starting batch processing",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ExtractReport, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("extracting input",
				"source", input.Source,
				"index", i+1,
				"total", len(inputs),
			)

			report := model.NewExtractReport(input.Source, input.RawText)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store the report regardless of error; it carries the
			// error information if the run failed.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("extraction failed",
					"source", input.Source,
					"error", err,
				)
				// Keep the other inputs going; the error lives in the report.
				return nil
			}

			bp.logger.Debug("extraction completed",
				"source", input.Source,
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback extracts from multiple inputs and calls a callback
// for each completed run. This is useful for streaming results.
//
// The callback receives the report and the index of the input in the
// original slice. The callback is called from the goroutine that completed
// the run, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []Input,
	callback func(report *model.ExtractReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewExtractReport(input.Source, input.RawText)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
