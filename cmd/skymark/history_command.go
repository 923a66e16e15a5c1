package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"skymark/internal/history"
	"skymark/internal/pipeline"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded enrichment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum runs to display")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-export results of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			return printRunItems(cmd, store, args[0])
		},
	}
}

func openHistoryStore(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return store, nil
}

func printRecentRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.ExportRoot,
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.AlreadyProcessed),
			strconv.Itoa(run.Failed),
			humanize.Bytes(uint64(run.FreedBytes)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Export root", "Total", "Enriched", "Skipped", "Failed", "Freed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}

func printRunItems(cmd *cobra.Command, store *history.Store, runID string) error {
	items, err := store.Items(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "No items recorded for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		gps := ""
		if item.Outcome == pipeline.KindSuccess.String() {
			gps = fmt.Sprintf("%s,%s",
				strconv.FormatFloat(item.Latitude, 'f', -1, 64),
				strconv.FormatFloat(item.Longitude, 'f', -1, 64))
		}
		detail := item.ErrorMessage
		if detail == "" && item.SourceRecycled {
			detail = fmt.Sprintf("source recycled (%s freed)", humanize.Bytes(uint64(item.FreedBytes)))
		}
		rows = append(rows, []string{
			item.ExportPath,
			item.Outcome,
			item.CapturedAt,
			gps,
			yesNo(item.SubtitleEmbedded),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Export", "Outcome", "Captured", "GPS", "Subtitle", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
