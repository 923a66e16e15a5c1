package pipeline

import (
	"context"
	"strings"

	"log/slog"

	"skymark/internal/logging"
)

// ModelReader reads a container's device-model tag.
type ModelReader interface {
	DeviceModel(ctx context.Context, path string) (string, error)
}

// SubtitleProber reports a container's subtitle stream titles.
type SubtitleProber interface {
	SubtitleTitles(ctx context.Context, path string) ([]string, error)
}

// Detector decides whether an export already carries injected telemetry, by
// the device-model tag first and the embedded subtitle track second. Every
// probe failure counts as "not processed": reprocessing a file twice is
// harmless, silently skipping one is not.
type Detector struct {
	models ModelReader
	prober SubtitleProber
	model  string
	title  string
	logger *slog.Logger
}

// NewDetector constructs a detector for the configured sentinel model and
// subtitle title. prober may be nil when no media-inspection tool is
// available; detection then rests on the model tag alone.
func NewDetector(models ModelReader, prober SubtitleProber, model, title string, logger *slog.Logger) *Detector {
	return &Detector{
		models: models,
		prober: prober,
		model:  model,
		title:  title,
		logger: logging.NewComponentLogger(logger, "detector"),
	}
}

// Processed reports whether the export at path was already enriched.
func (d *Detector) Processed(ctx context.Context, path string) bool {
	model, err := d.models.DeviceModel(ctx, path)
	if err != nil {
		d.logger.Debug("model probe failed, treating as unprocessed",
			logging.String("path", path), logging.Error(err))
	} else if strings.Contains(model, d.model) {
		return true
	}

	if d.prober == nil {
		return false
	}
	titles, err := d.prober.SubtitleTitles(ctx, path)
	if err != nil {
		d.logger.Debug("subtitle probe failed, treating as unprocessed",
			logging.String("path", path), logging.Error(err))
		return false
	}
	for _, title := range titles {
		if title == d.title {
			return true
		}
	}
	return false
}
