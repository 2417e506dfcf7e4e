package analytics

import (
	"math"
	"strconv"

	"github.com/acme/call-analytics/internal/domain"
)

const (
	magnitudeInf    = "∞"
	magnitudeNegInf = "-∞"
	magnitudeZero   = "0.0"

	// trendDeadband is the percentage change below which a trend is neutral.
	trendDeadband = 0.1
)

// Trend compares current against previous. NaN stands for a missing value on
// either side and yields a nil magnitude.
func Trend(current, previous float64) domain.TrendResult {
	if math.IsNaN(current) || math.IsNaN(previous) {
		return neutral(nil)
	}

	if previous == 0 {
		switch {
		case current > 0:
			return trendOf(magnitudeInf, domain.TrendUp)
		case current < 0:
			return trendOf(magnitudeNegInf, domain.TrendDown)
		default:
			return trendOf(magnitudeZero, domain.TrendNeutral)
		}
	}
	if current == 0 {
		if previous > 0 {
			return trendOf(magnitudeInf, domain.TrendDown)
		}
		return trendOf(magnitudeNegInf, domain.TrendUp)
	}

	pct := (current - previous) / previous * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return neutral(nil)
	}

	dir := domain.TrendNeutral
	if pct > trendDeadband {
		dir = domain.TrendUp
	} else if pct < -trendDeadband {
		dir = domain.TrendDown
	}
	return trendOf(strconv.FormatFloat(math.Abs(pct), 'f', 1, 64), dir)
}

// TrendOf is Trend for optional values; nil behaves like NaN.
func TrendOf(current, previous *float64) domain.TrendResult {
	return Trend(OrNaN(current), OrNaN(previous))
}

// OrNaN dereferences v, mapping nil to NaN.
func OrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func trendOf(magnitude string, dir domain.TrendDirection) domain.TrendResult {
	return domain.TrendResult{Magnitude: &magnitude, Direction: dir}
}

func neutral(magnitude *string) domain.TrendResult {
	return domain.TrendResult{Magnitude: magnitude, Direction: domain.TrendNeutral}
}
