package exiftool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"skymark/internal/services"
	"skymark/internal/telemetry"
)

// Metadata carries the fixed device identity written into every export.
type Metadata struct {
	Make     string
	Model    string
	Keywords string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps exiftool CLI interactions.
type Client struct {
	binary string
	meta   Metadata
	exec   Executor
}

// New constructs an exiftool client.
func New(binary string, meta Metadata, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "exiftool", "new", "no binary configured", nil)
	}
	client := &Client{
		binary: binary,
		meta:   meta,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// WriteTelemetry injects the record's capture metadata into the video at
// path with a single exiftool invocation. A stale temp artifact from an
// interrupted earlier invocation is removed first; exiftool refuses to run
// while one exists.
func (c *Client) WriteTelemetry(ctx context.Context, videoPath string, record *telemetry.Record) error {
	if record == nil {
		return services.Wrap(services.ErrValidation, "exiftool", "write telemetry", "no telemetry record", nil)
	}

	tmpPath := videoPath + "_exiftool_tmp"
	if _, err := os.Stat(tmpPath); err == nil {
		_ = os.Remove(tmpPath)
	}

	args := buildTagArgs(videoPath, record, c.meta)
	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "write telemetry", filepath.Base(videoPath), err)
	}
	return nil
}

// DeviceModel reads the container's device-model tag, returning the trimmed
// value ("" when the tag is absent).
func (c *Client) DeviceModel(ctx context.Context, videoPath string) (string, error) {
	output, err := c.exec.Run(ctx, c.binary, []string{"-Model", "-s3", videoPath})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "exiftool", "read model", filepath.Base(videoPath), err)
	}
	return strings.TrimSpace(output), nil
}

// buildTagArgs assembles the full tag set for one injection. Tag order is
// stable so invocations are reproducible: optional camera settings first,
// then device identity, searchable description fields, container dates, the
// ISO 6709 coordinate string, and the raw XMP coordinates.
func buildTagArgs(videoPath string, record *telemetry.Record, meta Metadata) []string {
	summary := cameraSummary(record, meta.Model)
	isoGPS := telemetry.FormatISO6709(record.Latitude, record.Longitude, record.Altitude)

	args := []string{"-overwrite_original"}

	if record.HasFNumber {
		args = append(args, "-FNumber="+formatFloat(record.FNumber))
	}
	if record.Shutter != "" {
		args = append(args, "-ExposureTime="+record.Shutter)
	}
	if record.ISO != "" {
		args = append(args, "-ISO="+record.ISO)
	}

	args = append(args,
		"-Make="+meta.Make,
		"-Model="+meta.Model,
		"-Keys:Make="+meta.Make,
		"-Keys:Model="+meta.Model,

		"-Description="+summary,
		"-UserComment="+summary,
		"-Keys:Description="+summary,
		"-Keywords="+meta.Keywords,
		"-Keys:Keywords="+meta.Keywords,
		"-Keys:DisplayName="+filepath.Base(videoPath),
	)

	if record.CapturedAt != "" {
		// Container date tags want "YYYY:MM:DD HH:MM:SS".
		dt := strings.ReplaceAll(record.CapturedAt, "-", ":")
		args = append(args,
			"-Keys:CreationDate="+dt,
			"-QuickTime:CreateDate="+dt,
			"-QuickTime:ModifyDate="+dt,
			"-QuickTime:TrackCreateDate="+dt,
			"-QuickTime:TrackModifyDate="+dt,
			"-QuickTime:MediaCreateDate="+dt,
			"-QuickTime:MediaModifyDate="+dt,
		)
	}

	args = append(args,
		"-Keys:GPSCoordinates="+isoGPS,
		"-QuickTime:GPSCoordinates="+isoGPS,
		"-UserData:GPSCoordinates="+isoGPS,

		"-XMP:GPSLatitude="+formatFloat(record.Latitude),
		"-XMP:GPSLongitude="+formatFloat(record.Longitude),
		"-XMP:GPSAltitude="+formatFloat(record.Altitude),
		"-XMP:GPSAltitudeRef=Above Sea Level",

		videoPath,
	)
	return args
}

// cameraSummary renders the human-readable settings line written to the
// description fields, e.g. "DJI Mini 3 Pro | ISO 100, 1/160, f/1.7".
// Missing ISO and shutter show as "?"; a missing f-stop is left blank.
func cameraSummary(record *telemetry.Record, model string) string {
	iso := record.ISO
	if iso == "" {
		iso = "?"
	}
	shutter := record.Shutter
	if shutter == "" {
		shutter = "?"
	}
	fnum := ""
	if record.HasFNumber {
		fnum = formatFloat(record.FNumber)
	}
	return fmt.Sprintf("%s | ISO %s, %s, f/%s", model, iso, shutter, fnum)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return stdout.String(), fmt.Errorf("%w: %s", err, detail)
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}
