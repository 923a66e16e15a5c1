// Package report aggregates per-export outcomes into the run summary
// written at the export tree root.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"skymark/internal/pipeline"
)

// FileName is the summary file written into the export root after every run.
const FileName = "injection_summary.txt"

// Detail describes one successfully enriched export.
type Detail struct {
	File       string
	CapturedAt string
	Latitude   float64
	Longitude  float64
}

// Summary tallies a completed run.
type Summary struct {
	GeneratedAt      time.Time
	Total            int
	Succeeded        int
	AlreadyProcessed int
	Details          []Detail
}

// Failed counts exports that produced neither an enrichment nor an
// already-processed skip.
func (s Summary) Failed() int {
	return s.Total - s.Succeeded - s.AlreadyProcessed
}

// Build tallies outcomes into a summary. Detail lines follow work-list
// order regardless of which worker finished first.
func Build(generatedAt time.Time, outcomes []pipeline.Outcome) Summary {
	summary := Summary{GeneratedAt: generatedAt, Total: len(outcomes)}

	sorted := make([]pipeline.Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Item.Ordinal < sorted[j].Item.Ordinal
	})

	for _, outcome := range sorted {
		switch outcome.Kind {
		case pipeline.KindSuccess:
			summary.Succeeded++
			capturedAt := outcome.CapturedAt
			if capturedAt == "" {
				capturedAt = "?"
			}
			summary.Details = append(summary.Details, Detail{
				File:       filepath.Base(outcome.Item.ExportPath),
				CapturedAt: capturedAt,
				Latitude:   outcome.Latitude,
				Longitude:  outcome.Longitude,
			})
		case pipeline.KindAlreadyProcessed:
			summary.AlreadyProcessed++
		}
	}
	return summary
}

// Render produces the summary text in its persisted layout.
func (s Summary) Render() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "DJI Metadata Injection Summary - %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05.000000"))
	builder.WriteString(strings.Repeat("=", 52))
	builder.WriteString("\n\n")
	fmt.Fprintf(&builder, "Total Videos Matched: %d\n", s.Total)
	fmt.Fprintf(&builder, "Successfully Processed: %d\n", s.Succeeded)
	fmt.Fprintf(&builder, "Skipped (Already Processed): %d\n", s.AlreadyProcessed)
	fmt.Fprintf(&builder, "Errors/No Match: %d\n\n", s.Failed())
	builder.WriteString("Details of Processed Files:\n")
	builder.WriteString(strings.Repeat("-", 50))
	builder.WriteString("\n")
	for _, detail := range s.Details {
		fmt.Fprintf(&builder, "File: %s | Date: %s | GPS: %s,%s\n",
			detail.File, detail.CapturedAt,
			formatCoordinate(detail.Latitude), formatCoordinate(detail.Longitude))
	}
	return builder.String()
}

// WriteFile persists the rendered summary under exportRoot and returns the
// file's full path.
func (s Summary) WriteFile(exportRoot string) (string, error) {
	path := filepath.Join(exportRoot, FileName)
	if err := os.WriteFile(path, []byte(s.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write run summary: %w", err)
	}
	return path, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
