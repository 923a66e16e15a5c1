package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"skymark/internal/config"
	"skymark/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	sourceDir  string
	exportDir  string
	toolsDir   string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "xdg"))

	cfg := testsupport.NewConfig(t, opts...)

	toolsDir := filepath.Join(base, "tools")
	makeStubTools(t, toolsDir, "exiftool", "ffmpeg", "ffprobe")
	cfg.Tools.Exiftool = filepath.Join(toolsDir, "exiftool")
	cfg.Tools.FFmpeg = filepath.Join(toolsDir, "ffmpeg")
	cfg.Tools.FFprobe = filepath.Join(toolsDir, "ffprobe")

	sourceDir := filepath.Join(base, "source")
	exportDir := filepath.Join(base, "export")
	for _, dir := range []string{sourceDir, exportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(homeDir, ".config", "skymark", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		sourceDir:  sourceDir,
		exportDir:  exportDir,
		toolsDir:   toolsDir,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// makeStubTools writes executable stand-ins for the external binaries. The
// ffmpeg stub copies its input video to the requested output path so the
// embedder's rename step finds a file; the ffprobe stub reports a container
// with no subtitle streams. Stubs set their own PATH so they keep working
// when a test empties the ambient one.
func makeStubTools(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create stub tools dir: %v", err)
	}
	for _, name := range names {
		var script string
		switch name {
		case "ffmpeg":
			script = `#!/bin/sh
PATH=/usr/bin:/bin
for last in "$@"; do :; done
cp "$3" "$last"
`
		case "ffprobe":
			script = `#!/bin/sh
echo '{"streams":[]}'
`
		default:
			script = "#!/bin/sh\nexit 0\n"
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
}

// markProcessedExiftool swaps the exiftool stub for one that reports the
// given camera model on tag reads, which the idempotency check treats as an
// already-enriched export.
func markProcessedExiftool(t *testing.T, env *cliTestEnv, model string) {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"-Model\" ]; then\n  echo %q\nfi\nexit 0\n", model)
	if err := os.WriteFile(filepath.Join(env.toolsDir, "exiftool"), []byte(script), 0o755); err != nil {
		t.Fatalf("write exiftool stub: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
