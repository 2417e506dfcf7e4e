package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestBetweenQueryOpenBounds(t *testing.T) {
	query, args := betweenQuery(nil, nil)
	if strings.Contains(query, "WHERE") || len(args) != 0 {
		t.Fatalf("expected unbounded query, got %q %v", query, args)
	}
}

func TestBetweenQueryBothBounds(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	query, args := betweenQuery(&start, &end)
	if !strings.Contains(query, "call_timestamp >= $1 AND call_timestamp <= $2") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 2 || args[0] != start || args[1] != end {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBetweenQueryEndOnly(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args := betweenQuery(nil, &end)
	if !strings.Contains(query, "WHERE call_timestamp <= $1 ORDER BY") || len(args) != 1 {
		t.Fatalf("unexpected query %q %v", query, args)
	}
}
