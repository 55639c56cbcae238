package ui

import (
	"fmt"
	"strings"
)

// renderProgressBar shows where the cursor sits within the whole track.
func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = max(0, min(ratio, 1))

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderScale(scale float64) string {
	return fmt.Sprintf("%.2fx", scale)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
