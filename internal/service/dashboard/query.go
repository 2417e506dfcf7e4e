package dashboard

import (
	"strconv"
	"strings"

	"github.com/acme/call-analytics/internal/analytics"
	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/regions"
)

// Query is a dashboard request as received from a client. Empty strings mean
// the filter is not set.
type Query struct {
	Period   string   `json:"period"`
	State    string   `json:"state,omitempty"`
	Operator string   `json:"operator,omitempty"`
	Region   string   `json:"region,omitempty"`
	Goal     *float64 `json:"goal,omitempty"`
}

// Normalize trims inputs, upper-cases the state and defaults the period to today.
func (q Query) Normalize() Query {
	q.Period = strings.ToLower(strings.TrimSpace(q.Period))
	if q.Period == "" {
		q.Period = analytics.PeriodToday
	}
	q.State = strings.ToUpper(strings.TrimSpace(q.State))
	q.Operator = strings.TrimSpace(q.Operator)
	q.Region = strings.TrimSpace(q.Region)
	return q
}

// OperatorSelected reports whether the query narrows to a single operator.
func (q Query) OperatorSelected() bool {
	return q.Operator != ""
}

// spec builds the record filter for one window of the query.
func (q Query) spec(w analytics.Window, regionMap regions.Map) domain.FilterSpec {
	spec := domain.FilterSpec{StartDate: w.Start, EndDate: w.End}
	if q.State != "" {
		state := q.State
		spec.StateCode = &state
	}
	if q.Operator != "" {
		op := q.Operator
		spec.OperatorName = &op
	}
	if q.Region != "" {
		spec.RegionStateCodes = regionMap.StatesIn(q.Region)
	}
	return spec
}

// cacheParts lists every input that changes a computed view.
func (q Query) cacheParts(p analytics.Period) []string {
	parts := []string{q.Period, q.State, q.Operator, q.Region, stamp(p.Current)}
	if q.Goal != nil {
		parts = append(parts, strconv.FormatFloat(*q.Goal, 'g', -1, 64))
	}
	return parts
}

func stamp(w analytics.Window) string {
	var b strings.Builder
	if w.Start != nil {
		b.WriteString(w.Start.UTC().Format("2006-01-02T15:04:05"))
	}
	b.WriteByte('/')
	if w.End != nil {
		b.WriteString(w.End.UTC().Format("2006-01-02T15:04:05"))
	}
	return b.String()
}
