package telemetry

import (
	"fmt"
	"math"
)

// FormatISO6709 renders a coordinate triple in the fixed-width ISO 6709
// annex form "+DD.DDDDD+DDD.DDDDD+AAA.AAA/". Photo services key off this
// exact shape when reading container GPS tags, so the widths and the leading
// sign (+ for zero and positive values, negative zero included) are
// load-bearing.
func FormatISO6709(lat, lon, alt float64) string {
	return fmt.Sprintf("%s%08.5f%s%09.5f%s%07.3f/",
		coordSign(lat), math.Abs(lat),
		coordSign(lon), math.Abs(lon),
		coordSign(alt), math.Abs(alt))
}

func coordSign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return "-"
}
