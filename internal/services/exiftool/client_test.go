package exiftool_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skymark/internal/services"
	"skymark/internal/services/exiftool"
	"skymark/internal/telemetry"
)

type stubExecutor struct {
	output string
	err    error
	calls  [][]string
}

func (s *stubExecutor) Run(_ context.Context, _ string, args []string) (string, error) {
	s.calls = append(s.calls, append([]string(nil), args...))
	return s.output, s.err
}

func fullRecord() *telemetry.Record {
	return &telemetry.Record{
		CapturedAt: "2025-08-09 18:53:47",
		Latitude:   35.6812,
		Longitude:  139.7671,
		Altitude:   10.2,
		ISO:        "100",
		Shutter:    "1/160",
		FNumber:    1.7,
		HasFNumber: true,
	}
}

func testMetadata() exiftool.Metadata {
	return exiftool.Metadata{
		Make:     "DJI",
		Model:    "DJI Mini 3 Pro",
		Keywords: "Drone; DJI; Mini 3 Pro; Telemetry",
	}
}

func TestWriteTelemetryBuildsFullTagSet(t *testing.T) {
	stub := &stubExecutor{}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}

	videoPath := filepath.Join(t.TempDir(), "DJI_0001.MP4")
	if err := client.WriteTelemetry(context.Background(), videoPath, fullRecord()); err != nil {
		t.Fatal(err)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(stub.calls))
	}
	args := stub.calls[0]

	if args[0] != "-overwrite_original" {
		t.Errorf("args[0] = %q, want -overwrite_original", args[0])
	}
	wantPrefix := []string{"-FNumber=1.7", "-ExposureTime=1/160", "-ISO=100"}
	for i, want := range wantPrefix {
		if args[1+i] != want {
			t.Errorf("args[%d] = %q, want %q", 1+i, args[1+i], want)
		}
	}
	if args[len(args)-1] != videoPath {
		t.Errorf("last arg = %q, want video path", args[len(args)-1])
	}

	joined := strings.Join(args, "\n")
	for _, want := range []string{
		"-Make=DJI",
		"-Model=DJI Mini 3 Pro",
		"-Keys:Make=DJI",
		"-Keys:Model=DJI Mini 3 Pro",
		"-Description=DJI Mini 3 Pro | ISO 100, 1/160, f/1.7",
		"-UserComment=DJI Mini 3 Pro | ISO 100, 1/160, f/1.7",
		"-Keys:Description=DJI Mini 3 Pro | ISO 100, 1/160, f/1.7",
		"-Keywords=Drone; DJI; Mini 3 Pro; Telemetry",
		"-Keys:Keywords=Drone; DJI; Mini 3 Pro; Telemetry",
		"-Keys:DisplayName=DJI_0001.MP4",
		"-Keys:CreationDate=2025:08:09 18:53:47",
		"-QuickTime:CreateDate=2025:08:09 18:53:47",
		"-QuickTime:ModifyDate=2025:08:09 18:53:47",
		"-QuickTime:TrackCreateDate=2025:08:09 18:53:47",
		"-QuickTime:TrackModifyDate=2025:08:09 18:53:47",
		"-QuickTime:MediaCreateDate=2025:08:09 18:53:47",
		"-QuickTime:MediaModifyDate=2025:08:09 18:53:47",
		"-Keys:GPSCoordinates=+35.68120+139.76710+010.200/",
		"-QuickTime:GPSCoordinates=+35.68120+139.76710+010.200/",
		"-UserData:GPSCoordinates=+35.68120+139.76710+010.200/",
		"-XMP:GPSLatitude=35.6812",
		"-XMP:GPSLongitude=139.7671",
		"-XMP:GPSAltitude=10.2",
		"-XMP:GPSAltitudeRef=Above Sea Level",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing tag arg %q", want)
		}
	}
}

func TestWriteTelemetryOmitsAbsentFields(t *testing.T) {
	stub := &stubExecutor{}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}

	record := &telemetry.Record{Latitude: -1.0, Longitude: -2.0}
	if err := client.WriteTelemetry(context.Background(), "/exports/clip.mp4", record); err != nil {
		t.Fatal(err)
	}

	args := stub.calls[0]
	joined := strings.Join(args, "\n")
	for _, banned := range []string{"-FNumber=", "-ExposureTime=", "-ISO=", "CreationDate", "CreateDate"} {
		if strings.Contains(joined, banned) {
			t.Errorf("unexpected tag arg containing %q", banned)
		}
	}
	if !strings.Contains(joined, "-Description=DJI Mini 3 Pro | ISO ?, ?, f/\n") {
		t.Errorf("summary placeholders missing in %q", joined)
	}
	if !strings.Contains(joined, "-Keys:GPSCoordinates=-01.00000-002.00000+000.000/") {
		t.Error("missing zero-altitude coordinate string")
	}
}

func TestWriteTelemetryRemovesStaleTemp(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "DJI_0001.MP4")
	tmpPath := videoPath + "_exiftool_tmp"
	if err := os.WriteFile(tmpPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := &stubExecutor{}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WriteTelemetry(context.Background(), videoPath, fullRecord()); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Fatalf("expected stale temp to be removed, stat err = %v", err)
	}
}

func TestWriteTelemetryWrapsToolError(t *testing.T) {
	stub := &stubExecutor{err: errors.New("exit status 1: Bad format")}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}

	wErr := client.WriteTelemetry(context.Background(), "/exports/DJI_0001.MP4", fullRecord())
	if wErr == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(wErr, services.ErrExternalTool) {
		t.Errorf("error %v not marked as external tool failure", wErr)
	}
	if !strings.Contains(wErr.Error(), "DJI_0001.MP4") {
		t.Errorf("error %v missing file context", wErr)
	}
}

func TestWriteTelemetryNilRecord(t *testing.T) {
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatal(err)
	}
	wErr := client.WriteTelemetry(context.Background(), "/exports/x.mp4", nil)
	if !errors.Is(wErr, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", wErr)
	}
}

func TestDeviceModel(t *testing.T) {
	stub := &stubExecutor{output: "DJI Mini 3 Pro\n"}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}

	model, err := client.DeviceModel(context.Background(), "/exports/DJI_0001.MP4")
	if err != nil {
		t.Fatal(err)
	}
	if model != "DJI Mini 3 Pro" {
		t.Errorf("model = %q, want trimmed value", model)
	}

	args := stub.calls[0]
	if len(args) != 3 || args[0] != "-Model" || args[1] != "-s3" {
		t.Errorf("unexpected query args: %v", args)
	}
}

func TestDeviceModelError(t *testing.T) {
	stub := &stubExecutor{err: errors.New("exit status 1")}
	client, err := exiftool.New("exiftool", testMetadata(), exiftool.WithExecutor(stub))
	if err != nil {
		t.Fatal(err)
	}
	_, mErr := client.DeviceModel(context.Background(), "/exports/DJI_0001.MP4")
	if !errors.Is(mErr, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", mErr)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	_, err := exiftool.New("  ", testMetadata())
	if err == nil {
		t.Fatal("expected error for empty binary")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
