// Package language provides unified language code normalization and mapping.
//
// Subtitle language values arrive from configuration in whatever form the
// user wrote ("en", "eng", "english"); conversions to the ISO 639-2 codes
// that MP4 containers expect, plus display names, live here.
package language
