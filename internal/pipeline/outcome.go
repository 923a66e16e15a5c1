package pipeline

// WorkItem pairs one export file with the telemetry log it will be enriched
// from. Ordinal and Total describe the item's position in the run for
// progress reporting.
type WorkItem struct {
	ExportPath    string
	TelemetryPath string
	Ordinal       int
	Total         int
}

// Kind classifies how processing one export ended.
type Kind int

const (
	// KindSuccess: telemetry metadata was written to the export.
	KindSuccess Kind = iota
	// KindAlreadyProcessed: the export already carried the injected marker.
	KindAlreadyProcessed
	// KindNoMetadata: the matched telemetry log yielded no usable record.
	KindNoMetadata
	// KindError: metadata injection failed.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindAlreadyProcessed:
		return "already_processed"
	case KindNoMetadata:
		return "no_metadata"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the single result every WorkItem produces. Capture fields are
// only meaningful for KindSuccess, Err only for KindError.
type Outcome struct {
	Item WorkItem
	Kind Kind

	CapturedAt string
	Latitude   float64
	Longitude  float64

	SubtitleEmbedded bool
	SourceRecycled   bool
	RecycledPath     string
	FreedBytes       int64

	Err error
}
