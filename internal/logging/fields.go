package logging

// Standardized attribute keys shared across components.
const (
	// FieldComponent identifies the subsystem emitting a log line. The console
	// handler renders it as a message prefix.
	FieldComponent = "component"

	// FieldEventType tags notable lifecycle events for log filtering.
	FieldEventType = "event_type"

	// FieldRunID correlates every line of a single run.
	FieldRunID = "run_id"
)
