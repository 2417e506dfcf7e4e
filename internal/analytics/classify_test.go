package analytics

import "testing"

func TestDurationPredicates(t *testing.T) {
	cases := []struct {
		name      string
		duration  *int
		attended  bool
		abandoned bool
		failed    bool
	}{
		{"positive", intPtr(30), true, false, false},
		{"zero", intPtr(0), false, true, false},
		{"absent", nil, false, false, true},
	}
	for _, tc := range cases {
		r := rec(8, tc.duration, "", "")
		if got := IsAttended(r); got != tc.attended {
			t.Errorf("%s: IsAttended = %v", tc.name, got)
		}
		if got := IsAbandoned(r); got != tc.abandoned {
			t.Errorf("%s: IsAbandoned = %v", tc.name, got)
		}
		if got := IsFailed(r); got != tc.failed {
			t.Errorf("%s: IsFailed = %v", tc.name, got)
		}
	}
}

func TestRulesNonEffectiveMatchesNormalizedLabels(t *testing.T) {
	rules := DefaultRules()
	for _, label := range []string{"  CAIXA POSTAL ", "Ligação Caiu", "cliente desligou", "Recusa"} {
		if !rules.IsNonEffective(rec(8, nil, label, "")) {
			t.Errorf("expected %q to be non-effective", label)
		}
	}
	for _, label := range []string{"Endereço Confirmado", "recusa parcial", ""} {
		if rules.IsNonEffective(rec(8, nil, label, "")) {
			t.Errorf("expected %q to be effective", label)
		}
	}
}

func TestRulesSuccessful(t *testing.T) {
	rules := DefaultRules()
	if !rules.IsSuccessful(rec(8, intPtr(10), " endereço CONFIRMADO ", "")) {
		t.Fatalf("expected success label to match case-insensitively")
	}
	if rules.IsSuccessful(rec(8, intPtr(10), "Cliente Ausente", "")) {
		t.Fatalf("non-effective label classified as success")
	}
	if rules.IsSuccessful(rec(8, intPtr(10), "", "")) {
		t.Fatalf("missing label classified as success")
	}
}

func TestZeroRulesClassifyNothing(t *testing.T) {
	var rules Rules
	r := rec(8, intPtr(10), "recusa", "")
	if rules.IsNonEffective(r) || rules.IsSuccessful(r) {
		t.Fatalf("zero rules should not classify labels")
	}
}
