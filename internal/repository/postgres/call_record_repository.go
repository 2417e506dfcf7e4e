package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acme/call-analytics/internal/domain"
)

// CallRecordRepository implements repository.CallRecordRepository on Postgres.
type CallRecordRepository struct {
	db *sqlx.DB
}

// NewCallRecordRepository builds the repository.
func NewCallRecordRepository(db *sqlx.DB) *CallRecordRepository {
	return &CallRecordRepository{db: db}
}

const (
	selectRecords = `SELECT id, call_timestamp, duration_seconds, uf, operator_name, tabulation, uploaded_at FROM call_records`
	insertRecord  = `INSERT INTO call_records
		(id, call_timestamp, duration_seconds, uf, operator_name, tabulation, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
)

// InsertBatch writes records in one transaction, skipping ids already stored.
func (r *CallRecordRepository) InsertBatch(ctx context.Context, records []domain.CallRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	err := execPrepared(ctx, r.db, insertRecord, func(stmt *sqlx.Stmt) error {
		for _, rec := range records {
			uploaded := rec.UploadedAt
			if uploaded.IsZero() {
				uploaded = now
			}
			if _, err := stmt.ExecContext(ctx,
				rec.ID, rec.Timestamp, rec.DurationSeconds, rec.State, rec.OperatorName, rec.TabulationLabel, uploaded,
			); err != nil {
				return fmt.Errorf("insert %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("call records: insert batch: %w", err)
	}
	return nil
}

// ListBetween returns records ordered by placement time.
func (r *CallRecordRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.CallRecord, error) {
	query, args := betweenQuery(start, end)
	records := make([]domain.CallRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("call records: list: %w", err)
	}
	return records, nil
}

// DistinctOperators lists the operator names seen in uploads.
func (r *CallRecordRepository) DistinctOperators(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "operator_name")
}

// DistinctStates lists the state codes seen in uploads.
func (r *CallRecordRepository) DistinctStates(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "uf")
}

func (r *CallRecordRepository) distinct(ctx context.Context, column string) ([]string, error) {
	out := make([]string, 0)
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM call_records WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s`, column)
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("call records: distinct %s: %w", column, err)
	}
	return out, nil
}

func betweenQuery(start, end *time.Time) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if start != nil {
		args = append(args, *start)
		conds = append(conds, fmt.Sprintf("call_timestamp >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conds = append(conds, fmt.Sprintf("call_timestamp <= $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(selectRecords)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY call_timestamp, id")
	return b.String(), args
}
