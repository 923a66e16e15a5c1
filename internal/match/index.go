package match

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"skymark/internal/logging"
)

// SourceIndex maps normalized telemetry-log base names to absolute log
// paths. It is built once before workers start and never mutated after, so
// workers share it without locking.
type SourceIndex struct {
	byKey map[string]string
	keys  []string
}

// BuildIndex walks the source tree and indexes every file carrying one of
// the telemetry extensions. Keys are the normalized base names; when two
// logs normalize to the same key the lexicographically later path wins,
// which WalkDir's lexical ordering makes deterministic. Unreadable subtrees
// are logged and skipped; only a failure to read the root aborts.
func BuildIndex(root string, extensions []string, logger *slog.Logger) (*SourceIndex, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	byKey := make(map[string]string)
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
		if d.IsDir() {
			return nil
		}
		if !hasExtension(d.Name(), extensions) {
			return nil
		}
		byKey[NormalizeKey(d.Name())] = path
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk source tree: %w", walkErr)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &SourceIndex{byKey: byKey, keys: keys}, nil
}

// Len reports how many telemetry logs the index holds.
func (x *SourceIndex) Len() int {
	return len(x.byKey)
}

// Resolve maps an export file path to its telemetry log. An exact key hit
// wins; otherwise the longest index key that appears as a substring of the
// export's normalized base name is taken, with equal lengths resolved to the
// lexicographically smallest key. Returns false when nothing in the index
// relates to the export.
func (x *SourceIndex) Resolve(exportPath string) (string, bool) {
	base := NormalizeKey(filepath.Base(exportPath))

	if path, ok := x.byKey[base]; ok {
		return path, true
	}

	bestLen := 0
	bestPath := ""
	for _, key := range x.keys {
		if len(key) > bestLen && strings.Contains(base, key) {
			bestLen = len(key)
			bestPath = x.byKey[key]
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return bestPath, true
}

// NormalizeKey strips the extension from a file name and folds it to a
// canonical form: Unicode NFC first (macOS volumes hand back decomposed
// names), then lower case.
func NormalizeKey(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ToLower(norm.NFC.String(stem))
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
