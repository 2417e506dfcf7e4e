package analytics

import (
	"math"
	"testing"

	"github.com/acme/call-analytics/internal/domain"
)

func TestTrend(t *testing.T) {
	cases := []struct {
		current, previous float64
		magnitude         string
		direction         domain.TrendDirection
	}{
		{10, 5, "100.0", domain.TrendUp},
		{5, 10, "50.0", domain.TrendDown},
		{5, 0, "∞", domain.TrendUp},
		{-5, 0, "-∞", domain.TrendDown},
		{0, 0, "0.0", domain.TrendNeutral},
		{0, 5, "∞", domain.TrendDown},
		{0, -5, "-∞", domain.TrendUp},
		{1000, 1000.5, "0.0", domain.TrendNeutral},
		{0.25, 0.2, "25.0", domain.TrendUp},
	}
	for _, tc := range cases {
		got := Trend(tc.current, tc.previous)
		if got.Magnitude == nil {
			t.Fatalf("trend(%v, %v): nil magnitude", tc.current, tc.previous)
		}
		if *got.Magnitude != tc.magnitude || got.Direction != tc.direction {
			t.Errorf("trend(%v, %v) = {%s %s}, want {%s %s}",
				tc.current, tc.previous, *got.Magnitude, got.Direction, tc.magnitude, tc.direction)
		}
	}
}

func TestTrendMissingValues(t *testing.T) {
	for _, got := range []domain.TrendResult{
		Trend(math.NaN(), 1),
		Trend(1, math.NaN()),
		TrendOf(nil, nil),
		TrendOf(nil, func() *float64 { v := 2.0; return &v }()),
	} {
		if got.Magnitude != nil || got.Direction != domain.TrendNeutral {
			t.Fatalf("expected null neutral trend, got %+v", got)
		}
	}
}
