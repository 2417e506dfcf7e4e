// Package memory holds an in-process record store used by the CLI and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
)

// CallRecordRepository keeps records in a slice guarded by a RWMutex.
type CallRecordRepository struct {
	mu      sync.RWMutex
	records []domain.CallRecord
	seen    map[uuid.UUID]struct{}
}

// NewCallRecordRepository returns a store preloaded with records.
func NewCallRecordRepository(records ...domain.CallRecord) *CallRecordRepository {
	r := &CallRecordRepository{seen: make(map[uuid.UUID]struct{})}
	_ = r.InsertBatch(context.Background(), records)
	return r
}

func (r *CallRecordRepository) InsertBatch(_ context.Context, records []domain.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if _, ok := r.seen[rec.ID]; ok {
			continue
		}
		r.seen[rec.ID] = struct{}{}
		r.records = append(r.records, rec)
	}
	return nil
}

func (r *CallRecordRepository) ListBetween(_ context.Context, start, end *time.Time) ([]domain.CallRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CallRecord, 0, len(r.records))
	for _, rec := range r.records {
		if start != nil && rec.Timestamp.Before(*start) {
			continue
		}
		if end != nil && rec.Timestamp.After(*end) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *CallRecordRepository) DistinctOperators(_ context.Context) ([]string, error) {
	return r.distinct(func(rec domain.CallRecord) *string { return rec.OperatorName }), nil
}

func (r *CallRecordRepository) DistinctStates(_ context.Context) ([]string, error) {
	return r.distinct(func(rec domain.CallRecord) *string { return rec.State }), nil
}

func (r *CallRecordRepository) distinct(field func(domain.CallRecord) *string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{})
	for _, rec := range r.records {
		if v := field(rec); v != nil && *v != "" {
			set[*v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
