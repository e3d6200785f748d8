package stats

import (
	"fmt"
	"math"
	"strings"
)

func float64ToPercent(value float64) string {
	switch {
	case value == 1:
		return "100%"
	case math.IsNaN(value):
		return "N/A"
	default:
		return fmt.Sprintf("%.1f%%", value*100)
	}
}

// FormatAverage renders a rate the way a box score does: .305, 1.000, N/A.
func FormatAverage(value float64) string {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return "N/A"
	case value >= 1:
		return fmt.Sprintf("%.3f", value)
	default:
		return strings.TrimPrefix(fmt.Sprintf("%.3f", value), "0")
	}
}
