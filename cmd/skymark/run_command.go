package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"skymark/internal/config"
	"skymark/internal/deps"
	"skymark/internal/fileutil"
	"skymark/internal/history"
	"skymark/internal/logging"
	"skymark/internal/match"
	"skymark/internal/media/ffprobe"
	"skymark/internal/pipeline"
	"skymark/internal/recycle"
	"skymark/internal/report"
	"skymark/internal/runlock"
	"skymark/internal/services/exiftool"
	"skymark/internal/services/ffmpeg"
)

type runFlags struct {
	force        bool
	workers      int
	deleteSource bool
	verbose      bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <source-dir> <export-dir>",
		Short: "Enrich exported videos with telemetry from their source logs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrichment(cmd, ctx, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Reprocess exports even when already enriched")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent workers (defaults to pipeline.workers)")
	cmd.Flags().BoolVar(&flags.deleteSource, "delete-source", false, "Move original recordings to the system trash after successful enrichment (telemetry logs are kept)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Stream structured logs to the console as well as the log file")
	return cmd
}

func runEnrichment(cmd *cobra.Command, ctx *commandContext, sourceArg, exportArg string, flags runFlags) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sourceRoot, exportRoot, err := resolveRunDirs(sourceArg, exportArg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	logStamp := time.Now().UTC().Format("20060102T150405.000Z")
	logger, err := newRunLogger(cfg, logStamp, flags.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: "skymark-*.log",
			Exclude: []string{filepath.Join(cfg.Paths.LogDir, "skymark-"+logStamp+".log")},
		},
	)

	if flags.deleteSource {
		color.New(color.FgYellow, color.Bold).Fprintln(out, "!!! WARNING: --delete-source is ENABLED !!!")
		fmt.Fprintln(out, "Original recordings will be moved to the system trash after successful enrichment.")
		fmt.Fprintln(out, "Telemetry logs are always kept.")
		fmt.Fprintln(out)
	}

	lock, err := runlock.Acquire(exportRoot)
	if err != nil {
		return err
	}
	defer lock.Release()

	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	var ffmpegOK, ffprobeOK bool
	for _, status := range statuses {
		switch status.Name {
		case "ExifTool":
			if !status.Available {
				return fmt.Errorf("exiftool is required: %s (see `skymark tools`)", status.Detail)
			}
		case "FFmpeg":
			ffmpegOK = status.Available
		case "FFprobe":
			ffprobeOK = status.Available
		}
	}

	embedSubtitles := cfg.Subtitles.Enabled && ffmpegOK
	switch {
	case embedSubtitles:
		fmt.Fprintln(out, "FFmpeg detected. Subtitle embedding enabled.")
	case cfg.Subtitles.Enabled:
		fmt.Fprintln(out, "FFmpeg not detected. Skipping subtitle embedding (metadata only).")
	default:
		fmt.Fprintln(out, "Subtitle embedding disabled by configuration.")
	}

	fmt.Fprintf(out, "Scanning source directory: %s ...\n", sourceRoot)
	index, err := match.BuildIndex(sourceRoot, cfg.Scan.TelemetryExtensions, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d telemetry logs in the source tree.\n", index.Len())

	fmt.Fprintf(out, "Scanning export directory: %s ...\n", exportRoot)
	exports, err := match.Scan(exportRoot, cfg.Scan.VideoExtensions, cfg.Scan.Exclude, logger)
	if err != nil {
		return err
	}

	items := buildWorkItems(exports, index)
	fmt.Fprintf(out, "Found %d videos with matching source data.\n", len(items))

	writer, err := exiftool.New(cfg.Tools.Exiftool, exiftool.Metadata{
		Make:     cfg.Camera.Make,
		Model:    cfg.Camera.Model,
		Keywords: cfg.Camera.Keywords,
	})
	if err != nil {
		return err
	}

	pipelineDeps := pipeline.Deps{Writer: writer}
	if embedSubtitles {
		pipelineDeps.Embedder = &subtitleEmbedder{
			embedder:  ffmpeg.NewEmbedder(cfg.Tools.FFmpeg, logger),
			subtitles: cfg.Subtitles,
		}
	}
	var prober pipeline.SubtitleProber
	if ffprobeOK {
		prober = ffprobe.Prober{Binary: cfg.Tools.FFprobe}
	}
	pipelineDeps.Detector = pipeline.NewDetector(writer, prober, cfg.Camera.Model, cfg.Subtitles.TrackTitle, logger)
	if flags.deleteSource {
		pipelineDeps.Recycler = recycle.New(cfg.Recycle.RecordingExtensions, logger)
	}

	workerCount := cfg.Pipeline.Workers
	if flags.workers > 0 {
		workerCount = flags.workers
	}
	runner := pipeline.NewRunner(pipelineDeps, pipeline.Options{
		Workers:      workerCount,
		Force:        flags.force,
		DeleteSource: flags.deleteSource,
	}, logger)

	startedAt := time.Now()
	outcomes := collectOutcomes(out, len(items), runner.Run(signalCtx, items))

	if signalCtx.Err() != nil {
		fmt.Fprintf(out, "\nRun cancelled after %d of %d exports.\n", len(outcomes), len(items))
		return context.Canceled
	}

	finishedAt := time.Now()
	summary := report.Build(finishedAt, outcomes)
	extras := tallyExtras(outcomes)

	printRunTally(out, summary, extras, flags.deleteSource)

	summaryPath, err := summary.WriteFile(exportRoot)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Summary saved to: %s\n", summaryPath)

	if cfg.History.Enabled {
		run := history.Run{
			ID:                uuid.NewString(),
			StartedAt:         startedAt,
			FinishedAt:        finishedAt,
			ExportRoot:        exportRoot,
			SourceRoot:        sourceRoot,
			Workers:           workerCount,
			Total:             summary.Total,
			Succeeded:         summary.Succeeded,
			AlreadyProcessed:  summary.AlreadyProcessed,
			Failed:            summary.Failed(),
			SubtitlesEmbedded: extras.subtitlesEmbedded,
			SourcesRecycled:   extras.sourcesRecycled,
			FreedBytes:        extras.freedBytes,
		}
		if err := recordRunHistory(signalCtx, cfg, run, outcomes); err != nil {
			logger.Warn("run history not recorded", logging.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "warn: run history not recorded: %v\n", err)
		}
	}

	return nil
}

func resolveRunDirs(sourceArg, exportArg string) (string, string, error) {
	sourceRoot, err := config.ExpandPath(sourceArg)
	if err != nil {
		return "", "", err
	}
	exportRoot, err := config.ExpandPath(exportArg)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(sourceRoot)
	if err != nil {
		return "", "", fmt.Errorf("source directory not found: %s", sourceRoot)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("source path is not a directory: %s", sourceRoot)
	}

	// The export tree receives remuxed files, the run lock, and the summary.
	if err := fileutil.CheckDirWritable(exportRoot); err != nil {
		return "", "", fmt.Errorf("export directory not usable: %w", err)
	}
	return sourceRoot, exportRoot, nil
}

func newRunLogger(cfg *config.Config, logStamp string, verbose bool) (*slog.Logger, error) {
	if verbose {
		return logging.NewFromConfig(cfg, logStamp)
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "skymark-"+logStamp+".log")
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

func buildWorkItems(exports []string, index *match.SourceIndex) []pipeline.WorkItem {
	items := make([]pipeline.WorkItem, 0, len(exports))
	for _, exportPath := range exports {
		telemetryPath, ok := index.Resolve(exportPath)
		if !ok {
			continue
		}
		items = append(items, pipeline.WorkItem{
			ExportPath:    exportPath,
			TelemetryPath: telemetryPath,
			Ordinal:       len(items) + 1,
		})
	}
	for i := range items {
		items[i].Total = len(items)
	}
	return items
}

func collectOutcomes(out io.Writer, total int, outcomes <-chan pipeline.Outcome) []pipeline.Outcome {
	collected := make([]pipeline.Outcome, 0, total)
	bar := newRunProgressBar(out, total)
	var deferred []pipeline.Outcome

	for outcome := range outcomes {
		collected = append(collected, outcome)
		if bar == nil {
			printOutcomeLine(out, outcome, false)
			continue
		}
		bar.Describe(fmt.Sprintf("[%d/%d] %s",
			outcome.Item.Ordinal, outcome.Item.Total, filepath.Base(outcome.Item.ExportPath)))
		_ = bar.Add(1)
		if outcome.Kind != pipeline.KindSuccess {
			deferred = append(deferred, outcome)
		}
	}

	if bar != nil {
		_ = bar.Finish()
		for _, outcome := range deferred {
			printOutcomeLine(out, outcome, true)
		}
	}
	return collected
}

type runExtras struct {
	subtitlesEmbedded int
	sourcesRecycled   int
	freedBytes        int64
}

func tallyExtras(outcomes []pipeline.Outcome) runExtras {
	var extras runExtras
	for _, outcome := range outcomes {
		if outcome.SubtitleEmbedded {
			extras.subtitlesEmbedded++
		}
		if outcome.SourceRecycled {
			extras.sourcesRecycled++
			extras.freedBytes += outcome.FreedBytes
		}
	}
	return extras
}

func printRunTally(out io.Writer, summary report.Summary, extras runExtras, deleteSource bool) {
	fmt.Fprintln(out, "\nProcessing complete.")

	rows := [][]string{
		{"Enriched", strconv.Itoa(summary.Succeeded)},
		{"Already processed", strconv.Itoa(summary.AlreadyProcessed)},
		{"Errors / no match", strconv.Itoa(summary.Failed())},
		{"Subtitles embedded", strconv.Itoa(extras.subtitlesEmbedded)},
	}
	if deleteSource {
		rows = append(rows, []string{
			"Sources recycled",
			fmt.Sprintf("%d (%s freed)", extras.sourcesRecycled, humanize.Bytes(uint64(extras.freedBytes))),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func recordRunHistory(ctx context.Context, cfg *config.Config, run history.Run, outcomes []pipeline.Outcome) error {
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordRun(ctx, run, outcomes)
}

// subtitleEmbedder fixes the track tags from configuration so the pipeline
// only has to hand over file paths.
type subtitleEmbedder struct {
	embedder  *ffmpeg.Embedder
	subtitles config.Subtitles
}

func (e *subtitleEmbedder) Embed(ctx context.Context, videoPath, telemetryPath string) error {
	return e.embedder.Embed(ctx, ffmpeg.EmbedRequest{
		VideoPath:     videoPath,
		TelemetryPath: telemetryPath,
		Language:      e.subtitles.Language,
		HandlerName:   e.subtitles.HandlerName,
		TrackTitle:    e.subtitles.TrackTitle,
	})
}
