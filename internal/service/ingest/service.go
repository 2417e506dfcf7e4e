package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/queue"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

// MaxBatchSize bounds the records accepted in one upload.
const MaxBatchSize = 50000

// BatchPublisher hands a validated batch to the ingest pipeline.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, msg queue.RecordBatchMessage) error
}

// Service validates uploads and enqueues them for persistence.
type Service struct {
	publisher BatchPublisher
	now       func() time.Time
}

// NewService constructs an ingest service.
func NewService(publisher BatchPublisher) *Service {
	return &Service{publisher: publisher, now: time.Now}
}

// Receipt acknowledges an accepted upload.
type Receipt struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Accepted int       `json:"accepted"`
}

// Submit validates records, stamps ids and upload time, and publishes them as one batch.
func (s *Service) Submit(ctx context.Context, records []domain.CallRecord) (*Receipt, error) {
	uploadedAt := s.now().UTC()
	batch, err := Normalize(records, uploadedAt)
	if err != nil {
		return nil, err
	}

	msg := queue.RecordBatchMessage{
		BatchID:    uuid.New(),
		Records:    batch,
		UploadedAt: uploadedAt,
	}
	if err := s.publisher.PublishBatch(ctx, msg); err != nil {
		return nil, fmt.Errorf("ingest service: publish batch: %w", err)
	}
	return &Receipt{BatchID: msg.BatchID, Accepted: len(batch)}, nil
}

// Normalize checks an upload and returns cleaned copies of its records.
func Normalize(records []domain.CallRecord, uploadedAt time.Time) ([]domain.CallRecord, error) {
	if len(records) == 0 {
		return nil, apperrors.Invalid("no records in upload")
	}
	if len(records) > MaxBatchSize {
		return nil, apperrors.Invalid("upload has %d records, limit is %d", len(records), MaxBatchSize)
	}

	out := make([]domain.CallRecord, 0, len(records))
	for i, rec := range records {
		if rec.Timestamp.IsZero() {
			return nil, apperrors.Invalid("record %d: call_timestamp is required", i)
		}
		if rec.DurationSeconds != nil && *rec.DurationSeconds < 0 {
			return nil, apperrors.Invalid("record %d: duration_seconds must not be negative", i)
		}
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.State = clean(rec.State, strings.ToUpper)
		rec.OperatorName = clean(rec.OperatorName, nil)
		rec.TabulationLabel = clean(rec.TabulationLabel, nil)
		rec.UploadedAt = uploadedAt
		out = append(out, rec)
	}
	return out, nil
}

// clean trims v into a fresh pointer; blank values become nil.
func clean(v *string, transform func(string) string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	if transform != nil {
		s = transform(s)
	}
	return &s
}
