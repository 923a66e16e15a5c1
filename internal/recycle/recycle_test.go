package recycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var candidateExtensions = []string{".MP4", ".mp4", ".MOV", ".mov"}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRecycleFirstExistingCandidate(t *testing.T) {
	srcDir := t.TempDir()
	srtPath := writeSource(t, srcDir, "DJI_0001.SRT", "telemetry")
	videoPath := writeSource(t, srcDir, "DJI_0001.mp4", "source recording bytes")

	recycler := New(candidateExtensions, nil)
	var trashed []string
	recycler.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "gio" && name != "osascript" && name != "powershell" {
			t.Errorf("unexpected trash helper %q", name)
		}
		trashed = append(trashed, args[len(args)-1])
		return nil
	})

	result, err := recycler.Recycle(context.Background(), srtPath, "/exports/DJI_0001.MP4")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Recycled {
		t.Fatal("expected a recycled result")
	}
	if result.Path != videoPath {
		t.Errorf("Path = %q, want %q", result.Path, videoPath)
	}
	if result.FreedBytes != int64(len("source recording bytes")) {
		t.Errorf("FreedBytes = %d, want source size", result.FreedBytes)
	}
	if len(trashed) != 1 {
		t.Fatalf("expected exactly one trash invocation, got %v", trashed)
	}
}

func TestRecycleLeavesExportAlone(t *testing.T) {
	srcDir := t.TempDir()
	srtPath := writeSource(t, srcDir, "DJI_0001.SRT", "telemetry")
	videoPath := writeSource(t, srcDir, "DJI_0001.mp4", "the export itself")

	recycler := New(candidateExtensions, nil)
	called := false
	recycler.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		called = true
		return nil
	})

	result, err := recycler.Recycle(context.Background(), srtPath, videoPath)
	if err != nil {
		t.Fatal(err)
	}
	if result.Recycled || called {
		t.Fatal("export must never be recycled")
	}
	if _, err := os.Stat(videoPath); err != nil {
		t.Fatalf("export file should remain: %v", err)
	}
}

func TestRecycleNoCandidate(t *testing.T) {
	srcDir := t.TempDir()
	srtPath := writeSource(t, srcDir, "DJI_0001.SRT", "telemetry")

	recycler := New(candidateExtensions, nil)
	recycler.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		t.Error("no candidate should be attempted")
		return nil
	})

	result, err := recycler.Recycle(context.Background(), srtPath, "/exports/DJI_0001.MP4")
	if err != nil {
		t.Fatal(err)
	}
	if result.Recycled {
		t.Fatal("nothing existed to recycle")
	}
}

func TestRecycleFallsBackToTrashDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("trash-directory fallback only engages on linux")
	}

	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	srcDir := t.TempDir()
	srtPath := writeSource(t, srcDir, "DJI_0001.SRT", "telemetry")
	videoPath := writeSource(t, srcDir, "DJI_0001.mp4", "recording")

	recycler := New(candidateExtensions, nil)
	recycler.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		return errors.New("gio: command not found")
	})

	result, err := recycler.Recycle(context.Background(), srtPath, "/exports/DJI_0001.MP4")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Recycled {
		t.Fatal("expected fallback recycle to succeed")
	}

	if _, err := os.Stat(videoPath); !os.IsNotExist(err) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}

	trashedFile := filepath.Join(dataHome, "Trash", "files", "DJI_0001.mp4")
	content, err := os.ReadFile(trashedFile)
	if err != nil {
		t.Fatalf("expected file in trash: %v", err)
	}
	if string(content) != "recording" {
		t.Errorf("trash content = %q", content)
	}

	infoBytes, err := os.ReadFile(filepath.Join(dataHome, "Trash", "info", "DJI_0001.mp4.trashinfo"))
	if err != nil {
		t.Fatalf("expected trashinfo record: %v", err)
	}
	info := string(infoBytes)
	if !strings.HasPrefix(info, "[Trash Info]\n") {
		t.Errorf("trashinfo header missing: %q", info)
	}
	if !strings.Contains(info, "Path=") || !strings.Contains(info, "DeletionDate=") {
		t.Errorf("trashinfo fields missing: %q", info)
	}
}

func TestUniqueTrashName(t *testing.T) {
	trashDir := t.TempDir()
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	if got := uniqueTrashName(filesDir, infoDir, "DJI_0001.mp4"); got != "DJI_0001.mp4" {
		t.Fatalf("unoccupied name = %q", got)
	}

	if err := os.WriteFile(filepath.Join(filesDir, "DJI_0001.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := uniqueTrashName(filesDir, infoDir, "DJI_0001.mp4"); got != "DJI_0001.2.mp4" {
		t.Fatalf("second name = %q, want DJI_0001.2.mp4", got)
	}
}

func TestTrashCommand(t *testing.T) {
	t.Run("linux", func(t *testing.T) {
		name, args, ok := trashCommand("linux", "/src/DJI_0001.mp4")
		if !ok || name != "gio" {
			t.Fatalf("got %q ok=%v", name, ok)
		}
		if len(args) != 2 || args[0] != "trash" || args[1] != "/src/DJI_0001.mp4" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("darwin", func(t *testing.T) {
		name, args, ok := trashCommand("darwin", "/src/DJI_0001.mp4")
		if !ok || name != "osascript" {
			t.Fatalf("got %q ok=%v", name, ok)
		}
		script := args[len(args)-1]
		if !strings.Contains(script, "Finder") || !strings.Contains(script, "/src/DJI_0001.mp4") {
			t.Errorf("script = %q", script)
		}
	})

	t.Run("windows", func(t *testing.T) {
		name, args, ok := trashCommand("windows", `C:\src\DJI "1".mp4`)
		if !ok || name != "powershell" {
			t.Fatalf("got %q ok=%v", name, ok)
		}
		command := args[len(args)-1]
		if !strings.Contains(command, "SendToRecycleBin") {
			t.Errorf("command = %q", command)
		}
		if !strings.Contains(command, "`\"") {
			t.Errorf("quotes not escaped: %q", command)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, _, ok := trashCommand("plan9", "/src/x.mp4"); ok {
			t.Fatal("expected no helper for unknown platform")
		}
	})
}
