// Package postgres implements the catalog stores on PostgreSQL. Every store
// resolves its executor from the context so calls made inside RunInTx share the
// transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "catalog/pkg/domain-errors"
	txcontext "catalog/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Tx runs functions inside a database transaction.
type Tx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTx builds a transaction runner. timeout bounds transactions whose context
// has no deadline; 0 uses a 5s default.
func NewTx(db *sql.DB, timeout time.Duration) *Tx {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &Tx{db: db, timeout: timeout}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
