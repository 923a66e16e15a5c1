package match

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"skymark/internal/logging"
)

// Scan walks the export tree and returns every video file eligible for
// processing, in lexical walk order. Paths holding the pipeline's own temp
// artifacts are ignored so a crashed earlier run never feeds half-written
// files back in, and exclude globs are applied to root-relative paths.
func Scan(root string, extensions, excludes []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var exports []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := relativeSlashPath(root, path)
		if d.IsDir() {
			if path != root && matchesAny(excludes, rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !hasExtension(d.Name(), extensions) {
			return nil
		}
		if strings.Contains(path, "_exiftool_tmp") || strings.Contains(d.Name(), "temp_") {
			return nil
		}
		if matchesAny(excludes, rel) {
			return nil
		}

		exports = append(exports, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk export tree: %w", walkErr)
	}
	return exports, nil
}

func relativeSlashPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		// Patterns are validated at config load, so a match error here
		// can only mean "no match".
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
