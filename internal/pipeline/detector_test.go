package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"skymark/internal/pipeline"
)

type stubModelReader struct {
	model string
	err   error
	calls int
}

func (s *stubModelReader) DeviceModel(context.Context, string) (string, error) {
	s.calls++
	return s.model, s.err
}

type stubProber struct {
	titles []string
	err    error
	calls  int
}

func (s *stubProber) SubtitleTitles(context.Context, string) ([]string, error) {
	s.calls++
	return s.titles, s.err
}

func TestDetectorModelTagWins(t *testing.T) {
	models := &stubModelReader{model: "DJI Mini 3 Pro"}
	prober := &stubProber{}
	detector := pipeline.NewDetector(models, prober, "DJI Mini 3 Pro", "DJI Telemetry", nil)

	if !detector.Processed(context.Background(), "/exports/a.mp4") {
		t.Fatal("expected processed via model tag")
	}
	if prober.calls != 0 {
		t.Error("subtitle probe should not run once the model tag matched")
	}
}

func TestDetectorFallsBackToSubtitleTitle(t *testing.T) {
	models := &stubModelReader{err: errors.New("exit status 1")}
	prober := &stubProber{titles: []string{"", "DJI Telemetry"}}
	detector := pipeline.NewDetector(models, prober, "DJI Mini 3 Pro", "DJI Telemetry", nil)

	if !detector.Processed(context.Background(), "/exports/a.mp4") {
		t.Fatal("expected processed via subtitle title")
	}
}

func TestDetectorSubstringModelMatch(t *testing.T) {
	// exiftool output may carry surrounding text; a containing match counts.
	models := &stubModelReader{model: "Camera: DJI Mini 3 Pro (v2)"}
	detector := pipeline.NewDetector(models, nil, "DJI Mini 3 Pro", "DJI Telemetry", nil)

	if !detector.Processed(context.Background(), "/exports/a.mp4") {
		t.Fatal("expected containing model value to count as processed")
	}
}

func TestDetectorFailsOpen(t *testing.T) {
	cases := []struct {
		name   string
		models *stubModelReader
		prober *stubProber
	}{
		{"both probes error", &stubModelReader{err: errors.New("boom")}, &stubProber{err: errors.New("boom")}},
		{"no marker anywhere", &stubModelReader{model: "GoPro HERO12"}, &stubProber{titles: []string{"Director Commentary"}}},
		{"model error without prober", &stubModelReader{err: errors.New("boom")}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var prober pipeline.SubtitleProber
			if tc.prober != nil {
				prober = tc.prober
			}
			detector := pipeline.NewDetector(tc.models, prober, "DJI Mini 3 Pro", "DJI Telemetry", nil)
			if detector.Processed(context.Background(), "/exports/a.mp4") {
				t.Fatal("expected unprocessed")
			}
		})
	}
}

func TestDetectorTitleMustMatchExactly(t *testing.T) {
	models := &stubModelReader{model: "other"}
	prober := &stubProber{titles: []string{"DJI Telemetry Extended"}}
	detector := pipeline.NewDetector(models, prober, "DJI Mini 3 Pro", "DJI Telemetry", nil)

	if detector.Processed(context.Background(), "/exports/a.mp4") {
		t.Fatal("a different title must not count as processed")
	}
}
