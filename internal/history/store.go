// Package history persists per-run results backed by SQLite so earlier
// enrichment runs stay inspectable from the CLI.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"skymark/internal/pipeline"
)

// Store manages run history persistence.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded invocation of the enrichment pipeline.
type Run struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	ExportRoot        string
	SourceRoot        string
	Workers           int
	Total             int
	Succeeded         int
	AlreadyProcessed  int
	Failed            int
	SubtitlesEmbedded int
	SourcesRecycled   int
	FreedBytes        int64
}

// Item is one export's result within a recorded run.
type Item struct {
	ExportPath       string
	TelemetryPath    string
	Outcome          string
	CapturedAt       string
	Latitude         float64
	Longitude        float64
	SubtitleEmbedded bool
	SourceRecycled   bool
	RecycledPath     string
	FreedBytes       int64
	ErrorMessage     string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun inserts a run and one row per outcome in a single transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, outcomes []pipeline.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, export_root, source_root, workers,
            total, succeeded, already_processed, failed,
            subtitles_embedded, sources_recycled, freed_bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.ExportRoot,
		run.SourceRoot,
		run.Workers,
		run.Total,
		run.Succeeded,
		run.AlreadyProcessed,
		run.Failed,
		run.SubtitlesEmbedded,
		run.SourcesRecycled,
		run.FreedBytes,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, outcome := range outcomes {
		var errorMessage string
		if outcome.Err != nil {
			errorMessage = outcome.Err.Error()
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO run_items (
                run_id, export_path, telemetry_path, outcome, captured_at,
                latitude, longitude, subtitle_embedded, source_recycled,
                recycled_path, freed_bytes, error_message
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			outcome.Item.ExportPath,
			outcome.Item.TelemetryPath,
			outcome.Kind.String(),
			nullableString(outcome.CapturedAt),
			nullablePosition(outcome.Latitude, outcome.Kind),
			nullablePosition(outcome.Longitude, outcome.Kind),
			boolToInt(outcome.SubtitleEmbedded),
			boolToInt(outcome.SourceRecycled),
			nullableString(outcome.RecycledPath),
			outcome.FreedBytes,
			nullableString(errorMessage),
		)
		if err != nil {
			return fmt.Errorf("insert run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = "id, started_at, finished_at, export_root, source_root, workers, total, succeeded, already_processed, failed, subtitles_embedded, sources_recycled, freed_bytes"

// RecentRuns returns the newest runs first, at most limit of them.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Items returns every recorded item of a run in insertion order.
func (s *Store) Items(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT export_path, telemetry_path, outcome, captured_at, latitude, longitude,
            subtitle_embedded, source_recycled, recycled_path, freed_bytes, error_message
        FROM run_items WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item             Item
			capturedAt       sql.NullString
			latitude         sql.NullFloat64
			longitude        sql.NullFloat64
			subtitleEmbedded int
			sourceRecycled   int
			recycledPath     sql.NullString
			errorMessage     sql.NullString
		)
		if err := rows.Scan(
			&item.ExportPath,
			&item.TelemetryPath,
			&item.Outcome,
			&capturedAt,
			&latitude,
			&longitude,
			&subtitleEmbedded,
			&sourceRecycled,
			&recycledPath,
			&item.FreedBytes,
			&errorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		item.CapturedAt = capturedAt.String
		item.Latitude = latitude.Float64
		item.Longitude = longitude.Float64
		item.SubtitleEmbedded = subtitleEmbedded != 0
		item.SourceRecycled = sourceRecycled != 0
		item.RecycledPath = recycledPath.String
		item.ErrorMessage = errorMessage.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run items: %w", err)
	}
	return items, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.ExportRoot,
		&run.SourceRoot,
		&run.Workers,
		&run.Total,
		&run.Succeeded,
		&run.AlreadyProcessed,
		&run.Failed,
		&run.SubtitlesEmbedded,
		&run.SourcesRecycled,
		&run.FreedBytes,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	started, err := time.Parse(time.RFC3339Nano, startedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse run start time: %w", err)
	}
	finished, err := time.Parse(time.RFC3339Nano, finishedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse run finish time: %w", err)
	}
	run.StartedAt = started
	run.FinishedAt = finished
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// nullablePosition keeps coordinates NULL for outcomes that never parsed a
// telemetry record.
func nullablePosition(value float64, kind pipeline.Kind) any {
	if kind != pipeline.KindSuccess {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
