package pipeline

import (
	"context"
	"sync"

	"log/slog"

	"skymark/internal/logging"
	"skymark/internal/recycle"
	"skymark/internal/telemetry"
)

// MetadataWriter injects a telemetry record into an export file.
type MetadataWriter interface {
	WriteTelemetry(ctx context.Context, videoPath string, record *telemetry.Record) error
}

// SubtitleEmbedder remuxes a telemetry log into an export as a subtitle
// track.
type SubtitleEmbedder interface {
	Embed(ctx context.Context, videoPath, telemetryPath string) error
}

// ProcessedDetector reports whether an export was already enriched.
type ProcessedDetector interface {
	Processed(ctx context.Context, path string) bool
}

// SourceRecycler moves the source recording behind a telemetry log to the
// trash.
type SourceRecycler interface {
	Recycle(ctx context.Context, telemetryPath, exportPath string) (recycle.Result, error)
}

// Deps carries the runner's collaborators. Embedder may be nil when the
// remux tool is unavailable (metadata-only runs); Recycler may be nil when
// source cleanup is disabled.
type Deps struct {
	Writer   MetadataWriter
	Embedder SubtitleEmbedder
	Detector ProcessedDetector
	Recycler SourceRecycler
}

// Options tunes a run.
type Options struct {
	Workers      int
	Force        bool
	DeleteSource bool
}

// Runner drives the per-file pipeline across a fixed work list with a pool
// of workers. The work list is computed entirely before Run; no worker
// discovers or schedules additional work, and no two items share an export
// path, so workers never contend on a file.
type Runner struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// NewRunner constructs a runner. Workers below 1 are raised to 1.
func NewRunner(deps Deps, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		deps:   deps,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes every item and streams exactly one Outcome per item, in
// completion order. Cancelling the context stops dispatching new items;
// in-flight items run to completion so no export is left mid-write. The
// returned channel closes once all dispatched items have reported.
func (r *Runner) Run(ctx context.Context, items []WorkItem) <-chan Outcome {
	jobs := make(chan WorkItem)
	outcomes := make(chan Outcome, len(items))

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				outcomes <- r.process(ctx, item)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return outcomes
}

// process walks one item through the pipeline: processed check, subtitle
// embed, telemetry extraction, metadata injection, source recycling.
func (r *Runner) process(ctx context.Context, item WorkItem) Outcome {
	outcome := Outcome{Item: item}
	logger := r.logger.With(logging.String("export", item.ExportPath))

	if !r.opts.Force && r.deps.Detector.Processed(ctx, item.ExportPath) {
		outcome.Kind = KindAlreadyProcessed
		logger.Info("already processed, skipping",
			logging.String(logging.FieldEventType, "export_skipped"))
		// Recycling still applies to already-enriched exports.
		r.maybeRecycle(ctx, item, &outcome, logger)
		return outcome
	}

	// Embedding failure never blocks metadata injection, but it does keep
	// the source recording out of the trash.
	subtitleOK := true
	if r.deps.Embedder != nil {
		if err := r.deps.Embedder.Embed(ctx, item.ExportPath, item.TelemetryPath); err != nil {
			subtitleOK = false
			logger.Warn("subtitle embedding failed", logging.Error(err))
		} else {
			outcome.SubtitleEmbedded = true
		}
	}

	record, err := telemetry.ParseFile(item.TelemetryPath)
	if err != nil {
		logger.Warn("telemetry log unreadable",
			logging.String("telemetry", item.TelemetryPath), logging.Error(err))
		outcome.Kind = KindNoMetadata
		return outcome
	}
	if record == nil {
		logger.Warn("no usable telemetry in log",
			logging.String("telemetry", item.TelemetryPath))
		outcome.Kind = KindNoMetadata
		return outcome
	}

	if err := r.deps.Writer.WriteTelemetry(ctx, item.ExportPath, record); err != nil {
		logger.Error("metadata injection failed", logging.Error(err))
		outcome.Kind = KindError
		outcome.Err = err
		return outcome
	}

	outcome.Kind = KindSuccess
	outcome.CapturedAt = record.CapturedAt
	outcome.Latitude = record.Latitude
	outcome.Longitude = record.Longitude
	logger.Info("telemetry injected",
		logging.String(logging.FieldEventType, "export_enriched"),
		logging.String("captured_at", record.CapturedAt))

	if subtitleOK {
		r.maybeRecycle(ctx, item, &outcome, logger)
	}
	return outcome
}

func (r *Runner) maybeRecycle(ctx context.Context, item WorkItem, outcome *Outcome, logger *slog.Logger) {
	if !r.opts.DeleteSource || r.deps.Recycler == nil {
		return
	}
	result, err := r.deps.Recycler.Recycle(ctx, item.TelemetryPath, item.ExportPath)
	if err != nil {
		// A recycling failure never changes the item's outcome.
		logger.Warn("source recycling failed", logging.Error(err))
		return
	}
	if result.Recycled {
		outcome.SourceRecycled = true
		outcome.RecycledPath = result.Path
		outcome.FreedBytes = result.FreedBytes
	}
}
