package telemetry

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	latitudePattern  = regexp.MustCompile(`\[latitude\s*:\s*([-+]?\d*\.\d+|\d+)\]`)
	longitudePattern = regexp.MustCompile(`\[longitude\s*:\s*([-+]?\d*\.\d+|\d+)\]`)
	altitudePattern  = regexp.MustCompile(`abs_alt:\s*([-+]?\d*\.\d+|\d+)`)
	isoPattern       = regexp.MustCompile(`\[iso\s*:\s*(\d+)\]`)
	shutterPattern   = regexp.MustCompile(`\[shutter\s*:\s*([^\]]+)\]`)
	fnumPattern      = regexp.MustCompile(`\[fnum\s*:\s*(\d+)\]`)
)

// ParseFile reads the telemetry log at path and extracts its first metadata
// block. A log without a usable GPS fix yields (nil, nil).
func ParseFile(path string) (*Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read telemetry log: %w", err)
	}
	return Parse(string(content)), nil
}

// Parse extracts the first timestamp, coordinate pair, and camera settings
// from log content. Only the first occurrence of each token counts; drones
// repeat the block once per frame and the opening frame describes the capture.
// Returns nil when latitude or longitude is missing, since a record without a
// full fix is useless downstream.
func Parse(content string) *Record {
	latMatch := latitudePattern.FindStringSubmatch(content)
	lonMatch := longitudePattern.FindStringSubmatch(content)
	if latMatch == nil || lonMatch == nil {
		return nil
	}

	lat, latErr := strconv.ParseFloat(latMatch[1], 64)
	lon, lonErr := strconv.ParseFloat(lonMatch[1], 64)
	if latErr != nil || lonErr != nil {
		return nil
	}

	record := &Record{Latitude: lat, Longitude: lon}

	record.CapturedAt = timestampPattern.FindString(content)

	if altMatch := altitudePattern.FindStringSubmatch(content); altMatch != nil {
		if alt, err := strconv.ParseFloat(altMatch[1], 64); err == nil {
			record.Altitude = alt
		}
	}

	if isoMatch := isoPattern.FindStringSubmatch(content); isoMatch != nil {
		record.ISO = isoMatch[1]
	}

	if shutterMatch := shutterPattern.FindStringSubmatch(content); shutterMatch != nil {
		// Logs write fractional shutter speeds as "1/160.0".
		record.Shutter = strings.Replace(shutterMatch[1], ".0", "", 1)
	}

	if fnumMatch := fnumPattern.FindStringSubmatch(content); fnumMatch != nil {
		if raw, err := strconv.ParseFloat(fnumMatch[1], 64); err == nil {
			// Aperture is logged as the f-stop scaled by 100.
			record.FNumber = raw / 100.0
			record.HasFNumber = true
		}
	}

	return record
}
