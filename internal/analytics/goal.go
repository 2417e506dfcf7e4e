package analytics

import (
	"math"

	"github.com/acme/call-analytics/internal/domain"
)

// GoalProgress tracks successful calls against a target.
type GoalProgress struct {
	Defined   bool    `json:"defined"`
	Target    float64 `json:"target"`
	Achieved  int     `json:"achieved"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// GoalProgressFor measures successful calls against goal. When a single
// operator is selected the team goal is split evenly across operators.
func GoalProgressFor(goal float64, successful, operatorCount int, operatorSelected bool) GoalProgress {
	p := GoalProgress{Achieved: successful}
	if math.IsNaN(goal) || goal <= 0 {
		return p
	}

	target := goal
	if operatorSelected {
		if operatorCount <= 0 {
			operatorCount = 1
		}
		target = goal / float64(operatorCount)
	}

	p.Defined = true
	p.Target = target
	p.Remaining = math.Max(0, target-float64(successful))
	p.Percent = float64(successful) / target * 100
	return p
}

// ExhibitionExcludedLabels lists the tabulations left out of the top
// tabulation chart: the success label and every lost-time outcome.
func ExhibitionExcludedLabels() []string {
	return append([]string{
		DefaultSuccessLabel,
		"recusa cartão tel. não é do cliente - *ligar nos demais*",
		"fidelizado/irá desbloquear",
		"recusa/não tem interesse em desbloquear",
	}, DefaultNonEffectiveLabels()...)
}

// TopTabulations drops excluded labels from an already sorted distribution
// and keeps at most n entries. n <= 0 keeps everything.
func TopTabulations(dist []domain.TabulationCount, exclude []string, n int) []domain.TabulationCount {
	skip := make(map[string]struct{}, len(exclude))
	for _, l := range exclude {
		skip[NormalizeLabel(l)] = struct{}{}
	}
	out := make([]domain.TabulationCount, 0, len(dist))
	for _, d := range dist {
		if _, ok := skip[NormalizeLabel(d.Label)]; ok {
			continue
		}
		out = append(out, d)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
