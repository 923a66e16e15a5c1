// Package pipeline runs the per-export enrichment state machine across a
// worker pool.
//
// Every matched export walks the same path: skip detection, optional
// subtitle embedding, telemetry extraction, metadata injection, and the
// safety-gated recycling of its source recording. Each item yields exactly
// one Outcome regardless of how far it got.
package pipeline
