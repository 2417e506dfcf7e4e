package repository

import (
	"context"
	"time"

	"github.com/acme/call-analytics/internal/domain"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

var (
	// ErrNotFound indicates the entity was not located.
	ErrNotFound = apperrors.ErrNotFound
	// ErrConflict indicates a unique constraint violation.
	ErrConflict = apperrors.ErrConflict
)

// CallRecordRepository is the primary store of uploaded call records.
type CallRecordRepository interface {
	// InsertBatch stores records. Re-inserting a known id is a no-op.
	InsertBatch(ctx context.Context, records []domain.CallRecord) error
	// ListBetween returns records placed within [start, end]; nil bounds are open.
	ListBetween(ctx context.Context, start, end *time.Time) ([]domain.CallRecord, error)
	DistinctOperators(ctx context.Context) ([]string, error)
	DistinctStates(ctx context.Context) ([]string, error)
}

// RecordArchive keeps a copy of records partitioned by calendar day.
type RecordArchive interface {
	InsertBatch(ctx context.Context, records []domain.CallRecord) error
	ListBetween(ctx context.Context, start, end *time.Time) ([]domain.CallRecord, error)
	ListDay(ctx context.Context, day time.Time, limit int, pagingState []byte) ([]domain.CallRecord, []byte, error)
}
