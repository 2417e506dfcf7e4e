package analytics

import (
	"sort"
	"strings"

	"github.com/acme/call-analytics/internal/domain"
)

// Engine runs the label-dependent aggregations with one shared rule set so
// that every view classifies calls the same way.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine bound to rules.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine creates an engine with the product taxonomy.
func DefaultEngine() *Engine {
	return NewEngine(DefaultRules())
}

// Rules exposes the engine's rule set.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Aggregate reduces records into a metrics snapshot. Empty input yields a
// zeroed snapshot.
func (e *Engine) Aggregate(records []domain.CallRecord) domain.MetricsSnapshot {
	var (
		s            domain.MetricsSnapshot
		attendedSecs int
	)
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		s.TotalCalls++
		if IsAttended(r) {
			s.AttendedCount++
			attendedSecs += *r.DurationSeconds
		}
		if IsAbandoned(r) {
			s.AbandonedCount++
		}
		if e.rules.IsNonEffective(r) {
			s.NonEffectiveCount++
			if r.DurationSeconds != nil {
				s.LostTimeSeconds += *r.DurationSeconds
			}
		}
		if e.rules.IsSuccessful(r) {
			s.SuccessfulCount++
		}
	}

	if s.AttendedCount > 0 {
		s.AverageHandleTimeSeconds = float64(attendedSecs) / float64(s.AttendedCount)
	}
	if s.TotalCalls > 0 {
		total := float64(s.TotalCalls)
		s.SuccessRate = float64(s.SuccessfulCount) / total
		s.AbandonRate = float64(s.AbandonedCount) / total
		s.NonEffectiveRate = float64(s.NonEffectiveCount) / total
	}
	return s
}

// TabulationDistribution counts records per trimmed tabulation label, most
// frequent first. Ties keep first-seen order. Empty labels are left out.
func (e *Engine) TabulationDistribution(records []domain.CallRecord) []domain.TabulationCount {
	index := make(map[string]int)
	out := make([]domain.TabulationCount, 0)
	for _, r := range records {
		if !r.Valid() || r.TabulationLabel == nil {
			continue
		}
		label := strings.TrimSpace(*r.TabulationLabel)
		if label == "" {
			continue
		}
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, domain.TabulationCount{Label: label})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})
	return out
}

// ByState groups records by state code. Records without a state are skipped.
func (e *Engine) ByState(records []domain.CallRecord) map[string]domain.StateMetrics {
	out := make(map[string]domain.StateMetrics)
	for _, r := range records {
		if !r.Valid() || r.State == nil || *r.State == "" {
			continue
		}
		m := out[*r.State]
		m.TotalCalls++
		if e.rules.IsSuccessful(r) {
			m.SuccessfulCount++
		}
		out[*r.State] = m
	}
	for state, m := range out {
		m.SuccessRate = float64(m.SuccessfulCount) / float64(m.TotalCalls)
		out[state] = m
	}
	return out
}
