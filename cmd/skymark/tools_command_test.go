package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestToolsListsExternalBinaries(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tools"}, env.configPath)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}

	for _, want := range []string{"ExifTool", "FFmpeg", "FFprobe", "Trash helper"} {
		requireContains(t, out, want)
	}
	requireContains(t, out, env.cfg.Tools.Exiftool)
}

func TestToolsReportsMissingBinary(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.FFmpeg = filepath.Join(env.toolsDir, "missing-ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"tools"}, env.configPath)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if !strings.Contains(out, "not found") {
		t.Fatalf("expected missing binary detail, got %q", out)
	}
}
