package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/models"
)

// Queries is the entity-store surface the core mutates and reads. Every
// method is scoped by the owning user where ownership applies; account
// lookups traverse account -> bank -> user rather than trusting a
// denormalized owner field. Implementations return ErrNotFound for rows that
// are missing or owned by someone else, and ErrDuplicateKey for natural-key
// collisions.
type Queries interface {
	CreateBank(ctx context.Context, bank *models.Bank) error
	GetBank(ctx context.Context, userID, bankID int64) (*models.Bank, error)
	GetBankByName(ctx context.Context, userID int64, name string) (*models.Bank, error)
	ListBanks(ctx context.Context, userID int64) ([]*models.Bank, error)
	DeleteBank(ctx context.Context, userID, bankID int64) error

	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error)
	// GetAccountForUpdate additionally acquires mutation rights on the row
	// for the remainder of the enclosing atomic unit.
	GetAccountForUpdate(ctx context.Context, userID, accountID int64) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, bankID int64, number string) (*models.Account, error)
	ListAccountsByBank(ctx context.Context, bankID int64) ([]*models.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) (*models.Account, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error)
	// TransactionTotals returns the user's summed deposit amounts (income)
	// and the absolute summed withdrawal/external-transfer amounts
	// (expenses).
	TransactionTotals(ctx context.Context, userID int64) (income, expenses decimal.Decimal, err error)
}

// Store is a durable entity store. Methods called directly on the Store run
// as single statements; ExecTx runs fn inside one atomic, all-or-nothing
// unit: either every mutation fn performs commits, or none do. Lock waits
// inside the unit are bounded and surface as ErrLockTimeout.
type Store interface {
	Queries
	ExecTx(ctx context.Context, fn func(q Queries) error) error
}

// EventPublisher receives successfully committed transactions. Publishing is
// fire-and-forget and must not fail the operation.
type EventPublisher interface {
	TransactionCreated(ctx context.Context, tx *models.Transaction)
}
