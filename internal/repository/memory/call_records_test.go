package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestInsertBatchIgnoresDuplicateIDs(t *testing.T) {
	id := uuid.New()
	ts := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := NewCallRecordRepository(domain.CallRecord{ID: id, Timestamp: ts})
	if err := repo.InsertBatch(context.Background(), []domain.CallRecord{{ID: id, Timestamp: ts}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, _ := repo.ListBetween(context.Background(), nil, nil)
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
}

func TestListBetweenInclusiveBounds(t *testing.T) {
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := NewCallRecordRepository(
		domain.CallRecord{Timestamp: base.Add(-time.Second)},
		domain.CallRecord{Timestamp: base},
		domain.CallRecord{Timestamp: base.Add(time.Hour)},
		domain.CallRecord{Timestamp: base.Add(2 * time.Hour)},
	)
	start, end := base, base.Add(time.Hour)
	got, err := repo.ListBetween(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestDistinctSkipsEmptyAndSorts(t *testing.T) {
	repo := NewCallRecordRepository(
		domain.CallRecord{OperatorName: strPtr("Bruno"), State: strPtr("SP")},
		domain.CallRecord{OperatorName: strPtr("Ana"), State: strPtr("")},
		domain.CallRecord{OperatorName: strPtr("Bruno")},
	)
	ops, _ := repo.DistinctOperators(context.Background())
	if len(ops) != 2 || ops[0] != "Ana" || ops[1] != "Bruno" {
		t.Fatalf("unexpected operators %v", ops)
	}
	states, _ := repo.DistinctStates(context.Background())
	if len(states) != 1 || states[0] != "SP" {
		t.Fatalf("unexpected states %v", states)
	}
}
