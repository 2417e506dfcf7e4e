package scylla

import (
	"testing"
	"time"
)

func TestBucketDateTruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2024, 3, 10, 22, 30, 0, 0, loc)
	got := bucketDate(ts)
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
