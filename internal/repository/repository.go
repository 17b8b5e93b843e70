// Package repository implements the ledger's entity store on PostgreSQL.
// Uniqueness and referential invariants live in the schema (see internal/db);
// this package translates constraint violations into domain errors.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/numanubhani/finance2/internal/ledger"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repositories serve both plain reads and atomic units.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries bundles the per-entity repositories over one DBTX. It implements
// ledger.Queries.
type Queries struct {
	*BankRepository
	*AccountRepository
	*TransactionRepository
}

// NewQueries creates the repository bundle on db.
func NewQueries(db DBTX) *Queries {
	return &Queries{
		BankRepository:        NewBankRepository(db),
		AccountRepository:     NewAccountRepository(db),
		TransactionRepository: NewTransactionRepository(db),
	}
}

// wrapErr maps database errors onto the ledger's domain errors.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ledger.ErrDuplicateKey
		case "55P03": // lock_not_available
			return ledger.ErrLockTimeout
		}
	}
	return err
}
