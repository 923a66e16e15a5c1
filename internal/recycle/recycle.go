package recycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"skymark/internal/logging"
)

// Result reports what a recycle attempt did.
type Result struct {
	Recycled   bool
	Path       string
	FreedBytes int64
}

type commandRunner func(ctx context.Context, name string, args ...string) error

// Recycler moves source recordings to the system trash once their telemetry
// has been safely re-attached to an export. It never unlinks anything
// directly; recovery stays possible through the trash.
type Recycler struct {
	extensions []string
	logger     *slog.Logger
	run        commandRunner
}

// New constructs a recycler that considers the given candidate extensions,
// tried in order. Case variants are distinct candidates.
func New(extensions []string, logger *slog.Logger) *Recycler {
	return &Recycler{
		extensions: extensions,
		logger:     logging.NewComponentLogger(logger, "recycle"),
		run:        defaultTrashCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Recycler) WithCommandRunner(run commandRunner) {
	if r != nil && run != nil {
		r.run = run
	}
}

// Recycle locates the source recording that produced the telemetry log and
// moves it to the trash. Candidates are the log's directory and base name
// with each configured extension; only the first existing candidate is ever
// attempted. A candidate equal to the export itself is left alone, and a
// missing candidate is not an error; the recording may have been recycled
// by an earlier run or by another export sharing the log.
func (r *Recycler) Recycle(ctx context.Context, telemetryPath, exportPath string) (Result, error) {
	if r == nil {
		return Result{}, fmt.Errorf("recycler not initialized")
	}

	srcDir := filepath.Dir(telemetryPath)
	base := filepath.Base(telemetryPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for _, ext := range r.extensions {
		candidate := filepath.Join(srcDir, stem+ext)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}

		if samePath(candidate, exportPath) {
			if r.logger != nil {
				r.logger.Debug("recycle candidate is the export itself, leaving alone",
					logging.String("path", candidate))
			}
			return Result{}, nil
		}

		if err := r.trash(ctx, candidate); err != nil {
			return Result{}, fmt.Errorf("trash %s: %w", candidate, err)
		}

		if r.logger != nil {
			r.logger.Info("source recording moved to trash",
				logging.String(logging.FieldEventType, "source_recycled"),
				logging.String("path", candidate),
				logging.Int64("freed_bytes", info.Size()),
			)
		}
		return Result{Recycled: true, Path: candidate, FreedBytes: info.Size()}, nil
	}

	return Result{}, nil
}

// samePath reports whether two paths resolve to the same cleaned absolute
// location. The export a run just enriched must never become a trash
// candidate.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
