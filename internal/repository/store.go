package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/numanubhani/finance2/internal/ledger"
)

// Store implements ledger.Store on PostgreSQL. Direct calls run as single
// statements; ExecTx wraps a function in one database transaction with a
// bounded lock wait.
type Store struct {
	db *sql.DB
	*Queries
	lockTimeout time.Duration
}

// NewStore creates a Store. lockTimeout bounds row-lock waits inside atomic
// units; zero keeps the server default.
func NewStore(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{
		db:          db,
		Queries:     NewQueries(db),
		lockTimeout: lockTimeout,
	}
}

// ExecTx runs fn inside a read-committed transaction. Any error from fn
// rolls back every mutation fn performed; a lock wait exceeding the
// configured timeout aborts the transaction with ledger.ErrLockTimeout.
func (s *Store) ExecTx(ctx context.Context, fn func(q ledger.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, timeout); err != nil {
			tx.Rollback()
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(NewQueries(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
