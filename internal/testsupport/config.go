package testsupport

import (
	"path/filepath"
	"testing"

	"skymark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "history.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkers overrides the worker pool size on the test config.
func WithWorkers(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.Workers = count
	}
}

// WithSubtitlesDisabled turns off telemetry subtitle embedding.
func WithSubtitlesDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Subtitles.Enabled = false
	}
}
