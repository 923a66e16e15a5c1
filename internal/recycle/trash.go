package recycle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"skymark/internal/fileutil"
	"skymark/internal/logging"
)

// trash moves path to the platform trash. On Linux the gio helper is tried
// first; headless machines often lack it, so the freedesktop trash layout is
// written directly as a fallback.
func (r *Recycler) trash(ctx context.Context, path string) error {
	name, args, ok := trashCommand(runtime.GOOS, path)
	if ok {
		err := r.run(ctx, name, args...)
		if err == nil {
			return nil
		}
		if runtime.GOOS != "linux" {
			return err
		}
		if r.logger != nil {
			r.logger.Debug("gio trash unavailable, using trash directory",
				logging.Error(err))
		}
	}
	return moveToUserTrash(path)
}

// trashCommand returns the platform's trash invocation for path. ok is
// false when the platform has no helper command and the caller must fall
// back to the trash-directory move.
func trashCommand(goos, path string) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("tell application %q to delete POSIX file %q", "Finder", path)
		return "osascript", []string{"-e", script}, true
	case "windows":
		escaped := strings.ReplaceAll(path, `"`, "`\"")
		command := fmt.Sprintf(`Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile("%s", "OnlyErrorDialogs", "SendToRecycleBin")`, escaped)
		return "powershell", []string{"-Command", command}, true
	case "linux":
		return "gio", []string{"trash", path}, true
	default:
		return "", nil, false
	}
}

// moveToUserTrash implements the freedesktop trash layout: the file moves
// into Trash/files and a .trashinfo record with the original path and
// deletion time goes into Trash/info.
func moveToUserTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	trashDir, err := userTrashDir()
	if err != nil {
		return err
	}
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return err
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return err
	}

	name := uniqueTrashName(filesDir, infoDir, filepath.Base(abs))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(abs), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return err
	}

	if err := fileutil.MoveFile(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}

func userTrashDir() (string, error) {
	if dataHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dataHome != "" {
		return filepath.Join(dataHome, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve trash directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// uniqueTrashName finds a name free in both the files and info directories,
// suffixing ".2", ".3", ... before the extension when the plain name is
// taken.
func uniqueTrashName(filesDir, infoDir, base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	candidate := base
	for n := 2; ; n++ {
		_, errFile := os.Stat(filepath.Join(filesDir, candidate))
		_, errInfo := os.Stat(filepath.Join(infoDir, candidate+".trashinfo"))
		if errors.Is(errFile, os.ErrNotExist) && errors.Is(errInfo, os.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s.%d%s", stem, n, ext)
	}
}

// escapeTrashPath percent-encodes the path for the .trashinfo Path key the
// way the freedesktop trash layout expects, leaving separators intact.
func escapeTrashPath(path string) string {
	u := url.URL{Path: path}
	return u.EscapedPath()
}

// defaultTrashCommandRunner executes trash helper commands.
func defaultTrashCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
