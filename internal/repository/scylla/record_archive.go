package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

// RecordArchive persists call records in Scylla, one partition per UTC day.
type RecordArchive struct {
	session *gocql.Session
}

// NewRecordArchive creates a new archive.
func NewRecordArchive(session *gocql.Session) *RecordArchive {
	return &RecordArchive{session: session}
}

// InsertBatch writes records as unlogged batches grouped by day bucket.
func (a *RecordArchive) InsertBatch(ctx context.Context, records []domain.CallRecord) error {
	byBucket := make(map[time.Time][]domain.CallRecord)
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		bucket := bucketDate(rec.Timestamp)
		byBucket[bucket] = append(byBucket[bucket], rec)
	}

	for bucket, group := range byBucket {
		batch := a.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
		for _, rec := range group {
			batch.Query(`INSERT INTO call_records_by_day (bucket, call_timestamp, id, duration_seconds, uf, operator_name, tabulation, uploaded_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				bucket, rec.Timestamp, gocql.UUID(rec.ID), rec.DurationSeconds, rec.State, rec.OperatorName, rec.TabulationLabel, rec.UploadedAt,
			)
		}
		if err := a.session.ExecuteBatch(batch); err != nil {
			return fmt.Errorf("record archive: insert bucket %s: %w", bucket.Format(time.DateOnly), err)
		}
	}
	return nil
}

// ListDay lists one day's records with pagination.
func (a *RecordArchive) ListDay(ctx context.Context, day time.Time, limit int, pagingState []byte) ([]domain.CallRecord, []byte, error) {
	if limit <= 0 {
		limit = 100
	}

	query := a.session.Query(`SELECT call_timestamp, id, duration_seconds, uf, operator_name, tabulation, uploaded_at
		FROM call_records_by_day WHERE bucket = ?`, bucketDate(day)).WithContext(ctx)
	query = query.PageSize(limit)
	if len(pagingState) > 0 {
		query = query.PageState(pagingState)
	}

	iter := query.Iter()
	records := make([]domain.CallRecord, 0, limit)

	var (
		ts       time.Time
		id       gocql.UUID
		duration *int
		state    *string
		operator *string
		label    *string
		uploaded time.Time
	)

	for iter.Scan(&ts, &id, &duration, &state, &operator, &label, &uploaded) {
		records = append(records, domain.CallRecord{
			ID:              uuid.UUID(id),
			Timestamp:       ts,
			DurationSeconds: duration,
			State:           state,
			OperatorName:    operator,
			TabulationLabel: label,
			UploadedAt:      uploaded,
		})
	}

	if err := iter.Close(); err != nil {
		return nil, nil, fmt.Errorf("record archive: iter close: %w", err)
	}

	return records, iter.PageState(), nil
}

// ListBetween reads every day bucket touched by [start, end]. Both bounds are
// required since the table has no cross-partition index.
func (a *RecordArchive) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.CallRecord, error) {
	if start == nil || end == nil {
		return nil, fmt.Errorf("record archive: list between: %w", apperrors.ErrValidation)
	}
	if end.Before(*start) {
		return []domain.CallRecord{}, nil
	}

	out := make([]domain.CallRecord, 0)
	for day := bucketDate(*start); !day.After(bucketDate(*end)); day = day.AddDate(0, 0, 1) {
		iter := a.session.Query(`SELECT call_timestamp, id, duration_seconds, uf, operator_name, tabulation, uploaded_at
			FROM call_records_by_day WHERE bucket = ? AND call_timestamp >= ? AND call_timestamp <= ?`,
			day, *start, *end).WithContext(ctx).Iter()

		var (
			ts       time.Time
			id       gocql.UUID
			duration *int
			state    *string
			operator *string
			label    *string
			uploaded time.Time
		)
		for iter.Scan(&ts, &id, &duration, &state, &operator, &label, &uploaded) {
			out = append(out, domain.CallRecord{
				ID:              uuid.UUID(id),
				Timestamp:       ts,
				DurationSeconds: duration,
				State:           state,
				OperatorName:    operator,
				TabulationLabel: label,
				UploadedAt:      uploaded,
			})
		}
		if err := iter.Close(); err != nil {
			return nil, fmt.Errorf("record archive: list bucket %s: %w", day.Format(time.DateOnly), err)
		}
	}
	return out, nil
}

func bucketDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
