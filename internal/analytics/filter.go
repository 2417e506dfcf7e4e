package analytics

import "github.com/acme/call-analytics/internal/domain"

// Filter returns the records matching spec, in input order. Bounds are
// inclusive. State and region predicates are both applied when both are set.
func Filter(records []domain.CallRecord, spec domain.FilterSpec) []domain.CallRecord {
	m := newMatcher(spec)
	out := make([]domain.CallRecord, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record satisfies spec.
func Matches(r domain.CallRecord, spec domain.FilterSpec) bool {
	return newMatcher(spec).match(r)
}

type matcher struct {
	spec   domain.FilterSpec
	region map[string]struct{}
}

func newMatcher(spec domain.FilterSpec) matcher {
	m := matcher{spec: spec}
	if spec.RegionStateCodes != nil {
		m.region = make(map[string]struct{}, len(spec.RegionStateCodes))
		for _, code := range spec.RegionStateCodes {
			m.region[code] = struct{}{}
		}
	}
	return m
}

func (m matcher) match(r domain.CallRecord) bool {
	if !r.Valid() {
		return false
	}
	if m.spec.StartDate != nil && r.Timestamp.Before(*m.spec.StartDate) {
		return false
	}
	if m.spec.EndDate != nil && r.Timestamp.After(*m.spec.EndDate) {
		return false
	}
	if m.spec.StateCode != nil {
		if r.State == nil || *r.State != *m.spec.StateCode {
			return false
		}
	}
	if m.spec.OperatorName != nil {
		if r.OperatorName == nil || *r.OperatorName != *m.spec.OperatorName {
			return false
		}
	}
	if m.region != nil {
		if r.State == nil {
			return false
		}
		if _, ok := m.region[*r.State]; !ok {
			return false
		}
	}
	return true
}
