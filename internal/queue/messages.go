package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-analytics/internal/domain"
)

// RecordBatchMessage carries one validated upload to the ingest worker.
type RecordBatchMessage struct {
	BatchID    uuid.UUID           `json:"batch_id"`
	Records    []domain.CallRecord `json:"records"`
	UploadedAt time.Time           `json:"uploaded_at"`
}

// DeadLetterMessage wraps a message the ingest worker could not process.
type DeadLetterMessage struct {
	Topic     string    `json:"topic"`
	Partition int       `json:"partition"`
	Offset    int64     `json:"offset"`
	Key       []byte    `json:"key,omitempty"`
	Payload   []byte    `json:"payload"`
	Error     string    `json:"error"`
	FailedAt  time.Time `json:"failed_at"`
}
