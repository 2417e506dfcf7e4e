package analytics

import (
	"time"

	apperrors "github.com/acme/call-analytics/pkg/errors"
)

// Period presets understood by ResolvePeriod.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodAll       = "all"
)

// Window is an inclusive time range; nil bounds are open.
type Window struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Period pairs the queried window with the comparable window before it.
// Previous is nil when no comparison applies.
type Period struct {
	Preset   string  `json:"preset"`
	Current  Window  `json:"current"`
	Previous *Window `json:"previous,omitempty"`
}

// ResolvePeriod turns a preset into concrete windows anchored at now in loc.
func ResolvePeriod(preset string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var curStart, curEnd, prevStart, prevEnd time.Time
	switch preset {
	case PeriodToday:
		curStart, curEnd = today, endOfDay(today)
		prevStart = today.AddDate(0, 0, -1)
		prevEnd = endOfDay(prevStart)
	case PeriodYesterday:
		curStart = today.AddDate(0, 0, -1)
		curEnd = endOfDay(curStart)
		prevStart = curStart.AddDate(0, 0, -1)
		prevEnd = endOfDay(prevStart)
	case PeriodWeek:
		curStart, curEnd = today.AddDate(0, 0, -6), endOfDay(today)
		prevStart = curStart.AddDate(0, 0, -7)
		prevEnd = endOfDay(curStart.AddDate(0, 0, -1))
	case PeriodMonth:
		curStart, curEnd = today.AddDate(0, 0, -29), endOfDay(today)
		prevStart = curStart.AddDate(0, 0, -30)
		prevEnd = endOfDay(curStart.AddDate(0, 0, -1))
	case PeriodAll:
		return Period{Preset: preset}, nil
	default:
		return Period{}, apperrors.Invalid("unknown period %q", preset)
	}

	return Period{
		Preset:   preset,
		Current:  Window{Start: &curStart, End: &curEnd},
		Previous: &Window{Start: &prevStart, End: &prevEnd},
	}, nil
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}
