package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"log/slog"

	langpkg "skymark/internal/language"
	"skymark/internal/logging"
)

// EmbedRequest describes the inputs for telemetry subtitle embedding.
type EmbedRequest struct {
	VideoPath     string // Export file to remux
	TelemetryPath string // Telemetry log to convert into a subtitle track
	Language      string // Any recognized language form; mapped to ISO 639-2
	HandlerName   string // Subtitle stream handler tag
	TrackTitle    string // Subtitle stream title tag
}

type commandRunner func(ctx context.Context, name string, args ...string) error

// Embedder remuxes telemetry logs into video containers as subtitle tracks
// using ffmpeg.
type Embedder struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewEmbedder constructs a subtitle embedder.
func NewEmbedder(binary string, logger *slog.Logger) *Embedder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Embedder{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "embedder"),
		run:    defaultEmbedCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Embedder) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Embed remuxes the telemetry log into the video as a text-subtitle track.
// The operation is atomic: ffmpeg writes to a sibling temp file which
// replaces the original only on success, so a failed or interrupted embed
// leaves the export untouched.
func (e *Embedder) Embed(ctx context.Context, req EmbedRequest) error {
	if e == nil {
		return fmt.Errorf("embedder not initialized")
	}
	if strings.TrimSpace(req.VideoPath) == "" {
		return fmt.Errorf("video path is required")
	}
	if strings.TrimSpace(req.TelemetryPath) == "" {
		return fmt.Errorf("telemetry path is required")
	}

	if _, err := os.Stat(req.VideoPath); err != nil {
		return fmt.Errorf("video not found: %w", err)
	}
	if _, err := os.Stat(req.TelemetryPath); err != nil {
		return fmt.Errorf("telemetry log not found %q: %w", req.TelemetryPath, err)
	}

	// The temp name carries the marker the export scan skips, so an
	// orphaned temp from a killed run is never picked up as an export.
	dir := filepath.Dir(req.VideoPath)
	base := filepath.Base(req.VideoPath)
	tmpPath := filepath.Join(dir, "temp_"+base)

	args := e.buildFFmpegArgs(req, tmpPath)

	if e.logger != nil {
		e.logger.Debug("executing ffmpeg",
			logging.String("video_path", req.VideoPath),
			logging.String("telemetry_path", req.TelemetryPath),
			logging.String("language", req.Language),
		)
	}

	if err := e.run(ctx, e.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}

	if err := os.Rename(tmpPath, req.VideoPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace original video: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("telemetry subtitle embedded",
			logging.String(logging.FieldEventType, "subtitle_embed_complete"),
			logging.String("video_path", req.VideoPath),
			logging.String("track_title", req.TrackTitle),
		)
	}

	return nil
}

// buildFFmpegArgs constructs the ffmpeg command arguments: stream-copy the
// video and audio, convert the telemetry log to the container's text
// subtitle codec, and tag the new stream.
func (e *Embedder) buildFFmpegArgs(req EmbedRequest, outputPath string) []string {
	lang3 := langpkg.ToISO3(req.Language)

	return []string{
		"-y",
		"-i", req.VideoPath,
		"-i", req.TelemetryPath,
		"-c", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language=" + lang3,
		"-metadata:s:s:0", "handler_name=" + req.HandlerName,
		"-metadata:s:s:0", "title=" + req.TrackTitle,
		outputPath,
	}
}

// defaultEmbedCommandRunner executes ffmpeg commands.
func defaultEmbedCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Include output in error for debugging
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
