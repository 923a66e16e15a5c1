// Package services defines shared utilities consumed by the pipeline and the
// external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure text
//     uniform (component: operation: message) and classifiable.
//   - The split between run-fatal errors (bad configuration, missing
//     directories) and per-item errors that become outcomes.
//
// Use these helpers when wiring new tool clients so error handling stays
// uniform across the pipeline.
package services
