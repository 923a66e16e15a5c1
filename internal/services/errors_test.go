package services_test

import (
	"errors"
	"strings"
	"testing"

	"skymark/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "exiftool", "write telemetry", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"exiftool", "write telemetry", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "recycler", "trash", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to default to transient, got %v", err)
	}
}

func TestWrapWithoutDetailParts(t *testing.T) {
	err := services.Wrap(services.ErrTransient, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestWrapMarkerSurvivesDoubleWrap(t *testing.T) {
	inner := services.Wrap(services.ErrConfiguration, "exiftool", "new", "no binary configured", nil)
	outer := services.Wrap(services.ErrExternalTool, "run", "setup", "", inner)
	if !errors.Is(outer, services.ErrConfiguration) {
		t.Fatalf("expected inner marker to survive, got %v", outer)
	}
	if !errors.Is(outer, services.ErrExternalTool) {
		t.Fatalf("expected outer marker to be present, got %v", outer)
	}
}
