// Package ledger implements the consistency core of the multi-bank ledger:
// banks, accounts and their immutable transaction history, kept mutually
// consistent under concurrent mutation through atomic units provided by the
// backing Store.
package ledger

import (
	"errors"
	"fmt"
)

// Domain errors. The HTTP layer maps these to status codes; the core itself
// never swallows or retries them.
var (
	// ErrNotFound covers both "does not exist" and "exists but belongs to
	// another user". The two are deliberately indistinguishable so responses
	// never leak the existence of other users' entities.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is a unique-constraint violation on a natural key
	// (bank name per user, account number per bank).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInsufficientFunds is returned when a debit would take a balance
	// below zero. No state is changed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for amounts that are non-positive,
	// unparseable, or carry more than two fractional digits.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransfer is returned for a transfer whose source and
	// destination are the same account.
	ErrInvalidTransfer = errors.New("cannot transfer to the same account")

	// ErrLockTimeout means an atomic unit gave up waiting for a row lock.
	// The operation was rolled back and is safe to retry.
	ErrLockTimeout = errors.New("timed out waiting for account lock")
)

// ValidationError reports a missing or malformed field for the requested
// operation, detected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
