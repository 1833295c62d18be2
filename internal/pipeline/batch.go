package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor renders several fitted model documents concurrently.
// Each document runs through its own pipeline on one goroutine; only
// whole documents run in parallel.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of documents rendered at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent documents.
// Non-positive values keep the default of 4.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each document so that
// pipeline state doesn't leak between documents.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatchWithCallback renders the given documents concurrently and
// returns one job per source, in input order. callback, when not nil, is
// called for each finished job from the goroutine that ran it, with the
// job's input index. A failing document does not stop the others; its
// error is kept on its job. The error return reports cancellation only.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []string,
	callback func(job *Job, index int),
) ([]*Job, error) {
	bp.logger.Debug("starting batch processing",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	jobs := make([]*Job, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		job := NewJob(source)
		jobs[i] = job

		g.Go(func() error {
			if callback != nil {
				defer callback(job, i)
			}

			select {
			case <-ctx.Done():
				job.Err = ctx.Err()
				return ctx.Err()
			default:
			}

			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("render failed",
					"source", source,
					"error", err,
				)
				return nil
			}

			bp.logger.Debug("render completed",
				"source", source,
				"run_id", job.RunID,
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	return jobs, err
}
