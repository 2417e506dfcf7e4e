package analytics

import (
	"time"

	"github.com/acme/call-analytics/internal/domain"
)

var base = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func rec(hour int, duration *int, label, state string) domain.CallRecord {
	r := domain.CallRecord{
		Timestamp:       base.Add(time.Duration(hour) * time.Hour),
		DurationSeconds: duration,
	}
	if label != "" {
		r.TabulationLabel = strPtr(label)
	}
	if state != "" {
		r.State = strPtr(state)
	}
	return r
}

// scenario is the three-record example used across the aggregation tests.
func scenario() []domain.CallRecord {
	return []domain.CallRecord{
		rec(9, intPtr(120), "Endereço Confirmado", "SP"),
		rec(10, intPtr(0), "", "SP"),
		rec(11, nil, "Cliente Ausente", "RJ"),
	}
}
