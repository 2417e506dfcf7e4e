package analytics

import "github.com/acme/call-analytics/internal/domain"

// HoursPerDay is the fixed length of HourlyCounts output.
const HoursPerDay = 24

// HourlyCounts returns call volume for each hour 0..23 of the records' own
// timestamp location. The result always has 24 entries.
func HourlyCounts(records []domain.CallRecord) []domain.HourBucket {
	out := make([]domain.HourBucket, HoursPerDay)
	for h := range out {
		out[h].Hour = h
	}
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		out[r.Timestamp.Hour()].Count++
	}
	return out
}

// HourWindow keeps the buckets whose hour lies in [from, to].
func HourWindow(buckets []domain.HourBucket, from, to int) []domain.HourBucket {
	out := make([]domain.HourBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Hour >= from && b.Hour <= to {
			out = append(out, b)
		}
	}
	return out
}

// StatusDistribution splits valid records into attended, abandoned and
// failed calls. Records with a negative duration fall in none of them.
func StatusDistribution(records []domain.CallRecord) domain.StatusCounts {
	var c domain.StatusCounts
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		switch {
		case IsAttended(r):
			c.Attended++
		case IsAbandoned(r):
			c.Abandoned++
		case IsFailed(r):
			c.Failed++
		}
	}
	return c
}
