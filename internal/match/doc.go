// Package match pairs exported video files with the telemetry logs they were
// recorded alongside.
//
// Editors rename exports ("DJI_0001_edit_final.mp4") but rarely drop the
// original recording name entirely, so matching is exact-first with a
// longest-substring fallback against an index of source-tree log names.
package match
