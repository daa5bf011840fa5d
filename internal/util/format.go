package util

import (
	"fmt"
	"math"
	"time"
)

// FormatCycleTime formats a position within an animation cycle as
// seconds with one decimal, e.g. "4.5s". Negative values clamp to zero.
func FormatCycleTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int64(d.Round(100*time.Millisecond) / (100 * time.Millisecond))
	return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
}

// FormatDegrees renders an angle in radians as degrees in (-180, 180].
func FormatDegrees(rad float64) string {
	deg := math.Remainder(rad*180/math.Pi, 360)
	if deg == -180 {
		deg = 180
	}
	return fmt.Sprintf("%.1f°", deg)
}
