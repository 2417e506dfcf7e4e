package domain

import (
	"time"

	"github.com/google/uuid"
)

// CallRecord models one logged call as uploaded by the operations team.
//
// A zero Timestamp marks a record that never had a placement time; such records
// are skipped by every aggregation. Nil pointer fields mean the column was empty.
type CallRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Timestamp       time.Time `json:"call_timestamp" db:"call_timestamp"`
	DurationSeconds *int      `json:"duration_seconds" db:"duration_seconds"`
	State           *string   `json:"uf" db:"uf"`
	OperatorName    *string   `json:"operator_name" db:"operator_name"`
	TabulationLabel *string   `json:"tabulation" db:"tabulation"`
	UploadedAt      time.Time `json:"uploaded_at,omitempty" db:"uploaded_at"`
}

// Valid reports whether the record can take part in aggregation.
func (r CallRecord) Valid() bool {
	return !r.Timestamp.IsZero()
}

// In returns a copy of the record with its timestamp expressed in loc.
func (r CallRecord) In(loc *time.Location) CallRecord {
	if loc != nil && !r.Timestamp.IsZero() {
		r.Timestamp = r.Timestamp.In(loc)
	}
	return r
}

// FilterSpec narrows a record collection to a dashboard query.
//
// Nil bounds are unbounded. RegionStateCodes distinguishes nil (no region
// selected) from an empty non-nil slice (a region with no mapped states, which
// matches nothing).
type FilterSpec struct {
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	StateCode        *string    `json:"state_code,omitempty"`
	OperatorName     *string    `json:"operator_name,omitempty"`
	RegionStateCodes []string   `json:"region_state_codes"`
}

// MetricsSnapshot aggregates a record set. Rates are ratios in [0,1].
type MetricsSnapshot struct {
	TotalCalls               int     `json:"total_calls"`
	AttendedCount            int     `json:"attended_count"`
	AbandonedCount           int     `json:"abandoned_count"`
	NonEffectiveCount        int     `json:"non_effective_count"`
	SuccessfulCount          int     `json:"successful_count"`
	LostTimeSeconds          int     `json:"lost_time_seconds"`
	AverageHandleTimeSeconds float64 `json:"average_handle_time_seconds"`
	SuccessRate              float64 `json:"success_rate"`
	AbandonRate              float64 `json:"abandon_rate"`
	NonEffectiveRate         float64 `json:"non_effective_rate"`
}

// HourBucket is the call volume placed during one hour of the day.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// TabulationCount is the number of calls carrying one outcome label.
type TabulationCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StateMetrics summarizes the calls of a single state.
type StateMetrics struct {
	TotalCalls      int     `json:"total_calls"`
	SuccessfulCount int     `json:"successful_count"`
	SuccessRate     float64 `json:"success_rate"`
}

// StatusCounts splits calls by connection outcome.
type StatusCounts struct {
	Attended  int `json:"attended"`
	Abandoned int `json:"abandoned"`
	Failed    int `json:"failed"`
}

// TrendDirection is the sign of a period-over-period change.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// TrendResult is the percentage change between two periods. A nil Magnitude
// means the comparison could not be made.
type TrendResult struct {
	Magnitude *string        `json:"magnitude"`
	Direction TrendDirection `json:"direction"`
}
