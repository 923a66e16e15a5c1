package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeCamera()
	c.normalizeSubtitles()
	c.normalizeTools()
	c.normalizeRecycle()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.VideoExtensions = normalizeExtensions(c.Scan.VideoExtensions, true)
	if len(c.Scan.VideoExtensions) == 0 {
		c.Scan.VideoExtensions = []string{".mp4", ".mov"}
	}
	c.Scan.TelemetryExtensions = normalizeExtensions(c.Scan.TelemetryExtensions, true)
	if len(c.Scan.TelemetryExtensions) == 0 {
		c.Scan.TelemetryExtensions = []string{".srt"}
	}

	patterns := make([]string, 0, len(c.Scan.Exclude))
	for _, pattern := range c.Scan.Exclude {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	c.Scan.Exclude = patterns
}

func (c *Config) normalizeCamera() {
	c.Camera.Make = strings.TrimSpace(c.Camera.Make)
	if c.Camera.Make == "" {
		c.Camera.Make = defaultCameraMake
	}
	c.Camera.Model = strings.TrimSpace(c.Camera.Model)
	if c.Camera.Model == "" {
		c.Camera.Model = defaultCameraModel
	}
	c.Camera.Keywords = strings.TrimSpace(c.Camera.Keywords)
	if c.Camera.Keywords == "" {
		c.Camera.Keywords = defaultCameraKeywords
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
	if c.Subtitles.Language == "" {
		c.Subtitles.Language = defaultSubtitleLanguage
	}
	c.Subtitles.HandlerName = strings.TrimSpace(c.Subtitles.HandlerName)
	if c.Subtitles.HandlerName == "" {
		c.Subtitles.HandlerName = defaultSubtitleHandler
	}
	c.Subtitles.TrackTitle = strings.TrimSpace(c.Subtitles.TrackTitle)
	if c.Subtitles.TrackTitle == "" {
		c.Subtitles.TrackTitle = defaultSubtitleTitle
	}
}

func (c *Config) normalizeTools() {
	c.Tools.Exiftool = strings.TrimSpace(c.Tools.Exiftool)
	if c.Tools.Exiftool == "" {
		c.Tools.Exiftool = defaultExiftoolBinary
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeRecycle() {
	// Case variants are meaningful here: candidates are probed in order on
	// case-sensitive filesystems.
	c.Recycle.RecordingExtensions = normalizeExtensions(c.Recycle.RecordingExtensions, false)
	if len(c.Recycle.RecordingExtensions) == 0 {
		c.Recycle.RecordingExtensions = []string{".MP4", ".mp4", ".MOV", ".mov"}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func normalizeExtensions(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.TrimSpace(value)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if lower {
			ext = strings.ToLower(ext)
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}
