package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// execPrepared prepares query inside a fresh transaction and hands the
// statement to fn. The transaction commits only when fn succeeds.
func execPrepared(ctx context.Context, db *sqlx.DB, query string, fn func(*sqlx.Stmt) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return rollback(tx, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func rollback(tx *sqlx.Tx, cause error) error {
	if err := tx.Rollback(); err != nil {
		return errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return cause
}
