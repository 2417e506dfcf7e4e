package analytics

import (
	"testing"

	"github.com/acme/call-analytics/internal/domain"
)

func TestHourlyCountsAlwaysHas24Buckets(t *testing.T) {
	got := HourlyCounts(nil)
	if len(got) != HoursPerDay {
		t.Fatalf("expected 24 buckets, got %d", len(got))
	}
	for h, b := range got {
		if b.Hour != h || b.Count != 0 {
			t.Fatalf("bucket %d: %+v", h, b)
		}
	}
}

func TestHourlyCountsTotals(t *testing.T) {
	records := []domain.CallRecord{
		rec(0, nil, "", ""),
		rec(9, intPtr(0), "", ""),
		rec(9, intPtr(40), "", ""),
		rec(23, intPtr(5), "", ""),
		{DurationSeconds: intPtr(3)},
	}
	got := HourlyCounts(records)
	if got[9].Count != 2 || got[0].Count != 1 || got[23].Count != 1 {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	sum := 0
	for _, b := range got {
		sum += b.Count
	}
	if sum != 4 {
		t.Fatalf("expected 4 valid calls bucketed, got %d", sum)
	}
}

func TestHourWindow(t *testing.T) {
	got := HourWindow(HourlyCounts(nil), 8, 20)
	if len(got) != 13 || got[0].Hour != 8 || got[12].Hour != 20 {
		t.Fatalf("unexpected window: %+v", got)
	}
}

func TestStatusDistribution(t *testing.T) {
	got := StatusDistribution(scenario())
	want := domain.StatusCounts{Attended: 1, Abandoned: 1, Failed: 1}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
