package analytics

import (
	"fmt"
	"math"
	"strconv"
)

const secondsPerDay = 24 * 3600

// FormatDuration renders seconds as [Nd ][HH:]MM:SS. Negative, NaN and
// infinite input renders as "00:00". Fractional seconds are rounded.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}

	total := int64(math.Round(seconds))
	days := total / secondsPerDay
	rest := total % secondsPerDay
	hours := rest / 3600
	minutes := (rest % 3600) / 60
	secs := rest % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	default:
		return fmt.Sprintf("%02d:%02d", minutes, secs)
	}
}

// FormatPercentage renders a ratio as a percentage with one decimal place.
// NaN renders as "0.0%".
func FormatPercentage(ratio float64) string {
	if math.IsNaN(ratio) {
		return "0.0%"
	}
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}
