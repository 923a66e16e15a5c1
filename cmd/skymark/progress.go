package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"skymark/internal/pipeline"
)

// newRunProgressBar returns a live bar for interactive terminals and nil
// everywhere else; non-terminal runs get one plain line per export instead.
func newRunProgressBar(out io.Writer, total int) *progressbar.ProgressBar {
	if total <= 0 || !isTerminal(out) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Enriching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printOutcomeLine(out io.Writer, outcome pipeline.Outcome, colorize bool) {
	label, style := outcomeLabel(outcome)
	line := fmt.Sprintf("[%d/%d] %s: %s",
		outcome.Item.Ordinal, outcome.Item.Total,
		filepath.Base(outcome.Item.ExportPath), label)
	if colorize && style != nil {
		style.Fprintln(out, line)
		return
	}
	fmt.Fprintln(out, line)
}

func outcomeLabel(outcome pipeline.Outcome) (string, *color.Color) {
	switch outcome.Kind {
	case pipeline.KindSuccess:
		var extras []string
		if outcome.SubtitleEmbedded {
			extras = append(extras, "subtitle embedded")
		}
		if outcome.SourceRecycled {
			extras = append(extras, "source recycled")
		}
		label := "enriched"
		if len(extras) > 0 {
			label += " (" + strings.Join(extras, ", ") + ")"
		}
		return label, color.New(color.FgGreen)
	case pipeline.KindAlreadyProcessed:
		return "already processed", color.New(color.FgCyan)
	case pipeline.KindNoMetadata:
		return "no telemetry metadata", color.New(color.FgYellow)
	default:
		label := "error"
		if outcome.Err != nil {
			label = "error: " + outcome.Err.Error()
		}
		return label, color.New(color.FgRed)
	}
}
