package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateRecycle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.VideoExtensions) == 0 {
		return errors.New("scan.video_extensions must include at least one extension")
	}
	if len(c.Scan.TelemetryExtensions) == 0 {
		return errors.New("scan.telemetry_extensions must include at least one extension")
	}
	for _, pattern := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.exclude contains invalid glob %q", pattern)
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateCamera() error {
	// The model tag is the idempotency sentinel; without it every run would
	// reprocess every export.
	if c.Camera.Model == "" {
		return errors.New("camera.model must be set")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if !c.Subtitles.Enabled {
		return nil
	}
	if c.Subtitles.Language == "" {
		return errors.New("subtitles.language must be set when subtitles.enabled is true")
	}
	if c.Subtitles.TrackTitle == "" {
		return errors.New("subtitles.track_title must be set when subtitles.enabled is true")
	}
	return nil
}

func (c *Config) validateRecycle() error {
	if len(c.Recycle.RecordingExtensions) == 0 {
		return errors.New("recycle.recording_extensions must include at least one extension")
	}
	return nil
}
