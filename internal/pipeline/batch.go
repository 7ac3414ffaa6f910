package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/scholarshield/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of scans a BatchProcessor runs at once
// unless WithConcurrency says otherwise.
const DefaultConcurrency = 10

// BatchProcessor handles concurrent processing of multiple scan inputs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-scan execution
// 2. The same processor serves the CLI list mode and the batch API endpoint
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each scan.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent scans.
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

// WithConcurrency sets the maximum number of concurrent scans.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory function is called once per scan.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans every input concurrently and returns the reports in
// input order. Reports of inputs that never started because the context
// was cancelled are nil.
//
// Individual scan failures are recorded in their report and do not stop
// the batch; the error return is only set on cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []model.ScanInput) ([]*model.ScanReport, error) {
	bp.logger.Info("starting batch processing",
		"total", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]*model.ScanReport, len(inputs))

	err := bp.run(ctx, inputs, func(report *model.ScanReport, index int) {
		// Each goroutine owns a distinct index.
		results[index] = report
	})

	bp.logger.Info("batch processing complete",
		"total", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback scans every input and calls callback for each
// completed scan with the report and the input index. The callback is
// called from worker goroutines and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []model.ScanInput,
	callback func(report *model.ScanReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total", len(inputs),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, inputs, callback)
}

func (bp *BatchProcessor) run(
	ctx context.Context,
	inputs []model.ScanInput,
	callback func(report *model.ScanReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewScanReport(input)
			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				bp.logger.Warn("scan failed",
					"index", i,
					"error", err,
				)
			}

			callback(report, i)
			return nil
		})
	}

	return g.Wait()
}
