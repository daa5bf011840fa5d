package ui

import (
	"fmt"
	"strings"
)

var eighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// renderLevelBar draws level in [0, 1] as a horizontal bar with eighth
// block resolution, padded to width cells.
func renderLevelBar(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	units := int(clampRatio(level, 1) * float64(width*8))
	full, part := units/8, units%8
	s := strings.Repeat("█", full) + eighths[part]
	used := full
	if part > 0 {
		used++
	}
	return s + strings.Repeat(" ", width-used)
}

func renderTerms(terms, total int) string {
	return fmt.Sprintf("terms %d/%d", terms, total)
}

func clampRatio(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	r := v / total
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
