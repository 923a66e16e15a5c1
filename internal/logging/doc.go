// Package logging assembles structured slog loggers shared across Skymark
// components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and provides attribute helpers plus a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// log lines with the same shape and routing as the rest of the tool.
package logging
