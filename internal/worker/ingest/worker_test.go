package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/queue"
	"github.com/acme/call-analytics/internal/repository/memory"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeDeadLetters struct {
	offsets []int64
}

func (d *fakeDeadLetters) Publish(_ context.Context, original kafka.Message, _ error) error {
	d.offsets = append(d.offsets, original.Offset)
	return nil
}

type fakeCache struct{ calls int }

func (c *fakeCache) InvalidateAll(context.Context) (int, error) {
	c.calls++
	return 0, nil
}

type failingRepo struct {
	*memory.CallRecordRepository
	attempts int
}

func (r *failingRepo) InsertBatch(context.Context, []domain.CallRecord) error {
	r.attempts++
	return errors.New("postgres unavailable")
}

func batchMessage(t *testing.T, offset int64, n int) kafka.Message {
	t.Helper()
	records := make([]domain.CallRecord, n)
	for i := range records {
		records[i] = domain.CallRecord{ID: uuid.New(), Timestamp: time.Date(2024, 3, 10, 9, i, 0, 0, time.UTC)}
	}
	value, err := json.Marshal(queue.RecordBatchMessage{BatchID: uuid.New(), Records: records})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return kafka.Message{Offset: offset, Value: value}
}

func TestRunPersistsAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		batchMessage(t, 1, 2),
		{Offset: 2, Value: []byte("not json")},
		batchMessage(t, 3, 1),
	}}
	repo := memory.NewCallRecordRepository()
	dead := &fakeDeadLetters{}
	snapshots := &fakeCache{}

	w := NewWorker(Deps{Reader: reader, Records: repo, DeadLetters: dead, Cache: snapshots})
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}

	stored, _ := repo.ListBetween(context.Background(), nil, nil)
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored records, got %d", len(stored))
	}
	if len(reader.committed) != 3 {
		t.Fatalf("expected every offset committed, got %v", reader.committed)
	}
	if len(dead.offsets) != 1 || dead.offsets[0] != 2 {
		t.Fatalf("expected offset 2 dead-lettered, got %v", dead.offsets)
	}
	if snapshots.calls != 2 {
		t.Fatalf("expected 2 invalidations, got %d", snapshots.calls)
	}
}

func TestHandleRetriesThenDeadLetters(t *testing.T) {
	repo := &failingRepo{CallRecordRepository: memory.NewCallRecordRepository()}
	dead := &fakeDeadLetters{}
	snapshots := &fakeCache{}
	w := NewWorker(Deps{Records: repo, DeadLetters: dead, Cache: snapshots})
	w.backoff = time.Millisecond

	w.handle(context.Background(), batchMessage(t, 7, 1))

	if repo.attempts != maxPersistAttempts {
		t.Fatalf("expected %d attempts, got %d", maxPersistAttempts, repo.attempts)
	}
	if len(dead.offsets) != 1 || dead.offsets[0] != 7 {
		t.Fatalf("expected offset 7 dead-lettered, got %v", dead.offsets)
	}
	if snapshots.calls != 0 {
		t.Fatal("cache must not be invalidated when nothing was stored")
	}
}
