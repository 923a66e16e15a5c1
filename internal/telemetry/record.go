package telemetry

// Record holds the metadata extracted from a single telemetry log. Latitude
// and longitude are always set on a non-nil Record; every other field is
// optional and reports absence through its zero value (HasFNumber for the
// f-stop, since 0 is not a usable sentinel for floats shown to users).
type Record struct {
	// CapturedAt is the first timestamp in the log, "2006-01-02 15:04:05",
	// in the drone's local time. Empty when the log carries no timestamp.
	CapturedAt string

	Latitude  float64
	Longitude float64

	// Altitude is the absolute altitude in meters, 0 when the log does not
	// report one.
	Altitude float64

	// ISO and Shutter are kept as the log's literal strings ("100",
	// "1/160") so the summary text matches what the camera recorded.
	ISO     string
	Shutter string

	// FNumber is the aperture as an f-stop (the log stores it scaled by
	// 100, so 170 means f/1.7).
	FNumber    float64
	HasFNumber bool
}
