package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteVideo fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteVideo(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteTelemetryLog writes a minimal flight log in the subtitle layout DJI
// drones record, carrying the provided position on its first frame.
func WriteTelemetryLog(t testing.TB, path string, lat, lon float64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := fmt.Sprintf(`1
00:00:00,000 --> 00:00:00,033
2025-08-09 18:53:47.246
[iso : 100] [shutter : 1/160.0] [fnum : 170]
[latitude: %v] [longitude: %v] [rel_alt: 1.200 abs_alt: 10.200]
`, lat, lon)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
