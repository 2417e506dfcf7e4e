package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/queue"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

type capturePublisher struct {
	msgs []queue.RecordBatchMessage
	err  error
}

func (p *capturePublisher) PublishBatch(_ context.Context, msg queue.RecordBatchMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var ts = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestSubmitPublishesNormalizedBatch(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewService(pub)
	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	input := []domain.CallRecord{{
		Timestamp:       ts,
		DurationSeconds: intPtr(30),
		State:           strPtr(" sp "),
		OperatorName:    strPtr(" Ana "),
		TabulationLabel: strPtr("  "),
	}}
	receipt, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Accepted != 1 || receipt.BatchID == uuid.Nil {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("expected one published batch, got %d", len(pub.msgs))
	}
	got := pub.msgs[0].Records[0]
	if got.ID == uuid.Nil {
		t.Fatal("expected a record id to be assigned")
	}
	if *got.State != "SP" || *got.OperatorName != "Ana" || got.TabulationLabel != nil {
		t.Fatalf("unexpected normalization %+v", got)
	}
	if !got.UploadedAt.Equal(fixed) {
		t.Fatalf("expected uploaded_at %s, got %s", fixed, got.UploadedAt)
	}
	if *input[0].State != " sp " {
		t.Fatal("input record was mutated")
	}
}

func TestSubmitKeepsProvidedID(t *testing.T) {
	pub := &capturePublisher{}
	id := uuid.New()
	if _, err := NewService(pub).Submit(context.Background(), []domain.CallRecord{{ID: id, Timestamp: ts}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pub.msgs[0].Records[0].ID != id {
		t.Fatal("expected provided id to be kept")
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := map[string][]domain.CallRecord{
		"empty":             nil,
		"missing timestamp": {{DurationSeconds: intPtr(1)}},
		"negative duration": {{Timestamp: ts, DurationSeconds: intPtr(-5)}},
	}
	for name, records := range cases {
		pub := &capturePublisher{}
		_, err := NewService(pub).Submit(context.Background(), records)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
		if len(pub.msgs) != 0 {
			t.Errorf("%s: nothing should be published", name)
		}
	}
}

func TestSubmitPublishFailure(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	_, err := NewService(pub).Submit(context.Background(), []domain.CallRecord{{Timestamp: ts}})
	if err == nil || errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected publish error, got %v", err)
	}
}
