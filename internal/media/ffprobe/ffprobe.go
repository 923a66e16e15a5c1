package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int        `json:"index"`
	CodecName string     `json:"codec_name"`
	CodecType string     `json:"codec_type"`
	Tags      StreamTags `json:"tags"`
}

// StreamTags carries the per-stream tag fields written during embedding.
type StreamTags struct {
	Language    string `json:"language"`
	HandlerName string `json:"handler_name"`
	Title       string `json:"title"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// SubtitleTitles returns the title tag of every subtitle stream, in stream
// order. Streams without a title contribute an empty string.
func (r Result) SubtitleTitles() []string {
	var titles []string
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "subtitle") {
			titles = append(titles, stream.Tags.Title)
		}
	}
	return titles
}

// Prober inspects files with a configured ffprobe binary.
type Prober struct {
	Binary string
}

// SubtitleTitles probes path and reports its subtitle stream titles.
func (p Prober) SubtitleTitles(ctx context.Context, path string) ([]string, error) {
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return nil, err
	}
	return result.SubtitleTitles(), nil
}
