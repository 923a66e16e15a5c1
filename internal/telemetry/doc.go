// Package telemetry extracts capture metadata from drone flight logs.
//
// DJI writes subtitle-format telemetry logs alongside each recording. The
// parser pulls the first timestamp, GPS fix, and camera-settings block out of
// a log; the formatter renders coordinates in the fixed-width ISO 6709 shape
// that downstream photo services expect.
package telemetry
