package analytics

import (
	"strings"

	"github.com/acme/call-analytics/internal/domain"
)

// DefaultSuccessLabel is the tabulation that marks the desired outcome.
const DefaultSuccessLabel = "endereço confirmado"

// DefaultNonEffectiveLabels returns the wasted-contact taxonomy.
func DefaultNonEffectiveLabels() []string {
	return []string{
		"telefone incorreto",
		"recusa",
		"agendamento grupo",
		"caixa postal",
		"ligação caiu",
		"cliente ausente",
		"cliente desligou",
		"ligação muda",
	}
}

// IsAttended reports a connected call with a positive duration.
func IsAttended(r domain.CallRecord) bool {
	return r.DurationSeconds != nil && *r.DurationSeconds > 0
}

// IsAbandoned reports a call recorded with a zero duration.
func IsAbandoned(r domain.CallRecord) bool {
	return r.DurationSeconds != nil && *r.DurationSeconds == 0
}

// IsFailed reports a call attempt with no recorded duration.
func IsFailed(r domain.CallRecord) bool {
	return r.DurationSeconds == nil
}

// Rules holds the label vocabulary used to classify call outcomes.
// A Rules value is read-only once built and safe to share.
type Rules struct {
	success      string
	nonEffective map[string]struct{}
}

// NewRules builds a rule set. Labels are normalized the same way record
// labels are before matching.
func NewRules(successLabel string, nonEffective []string) Rules {
	set := make(map[string]struct{}, len(nonEffective))
	for _, l := range nonEffective {
		set[NormalizeLabel(l)] = struct{}{}
	}
	return Rules{success: NormalizeLabel(successLabel), nonEffective: set}
}

// DefaultRules returns the product taxonomy.
func DefaultRules() Rules {
	return NewRules(DefaultSuccessLabel, DefaultNonEffectiveLabels())
}

// IsNonEffective reports whether the record's tabulation is a wasted contact.
func (r Rules) IsNonEffective(rec domain.CallRecord) bool {
	label, ok := labelOf(rec)
	if !ok {
		return false
	}
	_, hit := r.nonEffective[label]
	return hit
}

// IsSuccessful reports whether the record's tabulation is the success label.
func (r Rules) IsSuccessful(rec domain.CallRecord) bool {
	label, ok := labelOf(rec)
	return ok && r.success != "" && label == r.success
}

// NormalizeLabel trims and lower-cases a tabulation for comparison.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func labelOf(rec domain.CallRecord) (string, bool) {
	if rec.TabulationLabel == nil {
		return "", false
	}
	l := NormalizeLabel(*rec.TabulationLabel)
	return l, l != ""
}
