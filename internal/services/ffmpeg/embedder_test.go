package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbedder_BuildFFmpegArgs(t *testing.T) {
	embedder := NewEmbedder("ffmpeg", nil)

	req := EmbedRequest{
		VideoPath:     "/exports/DJI_0001.MP4",
		TelemetryPath: "/source/DJI_0001.SRT",
		Language:      "en",
		HandlerName:   "Telemetry",
		TrackTitle:    "DJI Telemetry",
	}
	args := embedder.buildFFmpegArgs(req, "/exports/temp_DJI_0001.MP4")

	want := []string{
		"-y",
		"-i", "/exports/DJI_0001.MP4",
		"-i", "/source/DJI_0001.SRT",
		"-c", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language=eng",
		"-metadata:s:s:0", "handler_name=Telemetry",
		"-metadata:s:s:0", "title=DJI Telemetry",
		"/exports/temp_DJI_0001.MP4",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestEmbedder_Embed_Validation(t *testing.T) {
	embedder := NewEmbedder("ffmpeg", nil)

	t.Run("nil embedder", func(t *testing.T) {
		var nilEmbedder *Embedder
		if err := nilEmbedder.Embed(context.Background(), EmbedRequest{}); err == nil {
			t.Error("expected error for nil embedder")
		}
	})

	t.Run("empty video path", func(t *testing.T) {
		err := embedder.Embed(context.Background(), EmbedRequest{TelemetryPath: "/x.srt"})
		if err == nil {
			t.Error("expected error for empty video path")
		}
	})

	t.Run("empty telemetry path", func(t *testing.T) {
		err := embedder.Embed(context.Background(), EmbedRequest{VideoPath: "/x.mp4"})
		if err == nil {
			t.Error("expected error for empty telemetry path")
		}
	})

	t.Run("non-existent video", func(t *testing.T) {
		err := embedder.Embed(context.Background(), EmbedRequest{
			VideoPath:     "/nonexistent/x.mp4",
			TelemetryPath: "/nonexistent/x.srt",
		})
		if err == nil {
			t.Error("expected error for non-existent video")
		}
	})
}

func TestEmbedder_Embed_WithMockRunner(t *testing.T) {
	tmpDir := t.TempDir()
	videoPath := filepath.Join(tmpDir, "DJI_0001.MP4")
	srtPath := filepath.Join(tmpDir, "DJI_0001.SRT")

	if err := os.WriteFile(videoPath, []byte("original video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(srtPath, []byte("1\n00:00:00,000 --> 00:00:00,033\n[latitude: 35.6] [longitude: 139.7]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("successful embed replaces original", func(t *testing.T) {
		embedder := NewEmbedder("ffmpeg", nil)
		called := false
		embedder.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			called = true
			if name != "ffmpeg" {
				t.Errorf("expected ffmpeg command, got %s", name)
			}
			out := args[len(args)-1]
			if filepath.Base(out) != "temp_DJI_0001.MP4" {
				t.Errorf("expected temp_ output name, got %s", out)
			}
			return os.WriteFile(out, []byte("embedded video"), 0o644)
		})

		err := embedder.Embed(context.Background(), EmbedRequest{
			VideoPath:     videoPath,
			TelemetryPath: srtPath,
			Language:      "en",
			HandlerName:   "Telemetry",
			TrackTitle:    "DJI Telemetry",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Error("ffmpeg command was not called")
		}

		content, err := os.ReadFile(videoPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "embedded video" {
			t.Errorf("video content = %q, want embedded output", content)
		}
		if _, err := os.Stat(filepath.Join(tmpDir, "temp_DJI_0001.MP4")); err == nil {
			t.Error("temp file should be gone after replace")
		}
		// The telemetry log must survive embedding; cleanup is a
		// separately gated step.
		if _, err := os.Stat(srtPath); err != nil {
			t.Errorf("telemetry log should remain: %v", err)
		}
	})

	t.Run("failed embed keeps original and removes temp", func(t *testing.T) {
		embedder := NewEmbedder("ffmpeg", nil)
		embedder.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			out := args[len(args)-1]
			if err := os.WriteFile(out, []byte("partial"), 0o644); err != nil {
				return err
			}
			return errors.New("exit status 1: muxing failed")
		})

		err := embedder.Embed(context.Background(), EmbedRequest{
			VideoPath:     videoPath,
			TelemetryPath: srtPath,
			Language:      "en",
		})
		if err == nil {
			t.Fatal("expected error")
		}

		content, readErr := os.ReadFile(videoPath)
		if readErr != nil {
			t.Fatal(readErr)
		}
		if string(content) != "embedded video" {
			t.Errorf("original video modified on failure: %q", content)
		}
		if _, statErr := os.Stat(filepath.Join(tmpDir, "temp_DJI_0001.MP4")); statErr == nil {
			t.Error("temp file should be removed on failure")
		}
	})
}
