package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `a.id, a.bank_id, a.name, a.number, a.balance, a.created_at, a.updated_at`

// CreateAccount inserts an account. A (bank_id, number) collision surfaces
// as ledger.ErrDuplicateKey. ON CONFLICT DO NOTHING keeps the collision from
// aborting the enclosing transaction, so idempotent provisioning can refetch
// the existing row in the same atomic unit.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (bank_id, name, number, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (bank_id, number) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.BankID,
		account.Name,
		account.Number,
		account.Balance,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing inserted: the natural key is already taken.
		return ledger.ErrDuplicateKey
	}
	return wrapErr(err)
}

// GetAccount gets an account by id, checking ownership through the owning
// bank. Missing and not-owned are both ledger.ErrNotFound.
func (r *AccountRepository) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		JOIN banks b ON b.id = a.bank_id
		WHERE a.id = $1 AND b.user_id = $2
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, accountID, userID))
}

// GetAccountForUpdate is GetAccount plus a row lock on the account for the
// remainder of the enclosing transaction.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		JOIN banks b ON b.id = a.bank_id
		WHERE a.id = $1 AND b.user_id = $2
		FOR UPDATE OF a
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, accountID, userID))
}

// GetAccountByNumber gets an account by its natural key within a bank.
func (r *AccountRepository) GetAccountByNumber(ctx context.Context, bankID int64, number string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		WHERE a.bank_id = $1 AND a.number = $2
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, bankID, number))
}

// ListAccountsByBank returns a bank's accounts ordered by name.
func (r *AccountRepository) ListAccountsByBank(ctx context.Context, bankID int64) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		WHERE a.bank_id = $1
		ORDER BY a.name
	`

	rows, err := r.db.QueryContext(ctx, query, bankID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(
			&account.ID,
			&account.BankID,
			&account.Name,
			&account.Number,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateAccountBalance persists a new balance and returns the updated row.
// The insufficient-funds guard runs in the service; callers hold the row
// lock.
func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, bank_id, name, number, balance, created_at, updated_at
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, balance, accountID))
}

func (r *AccountRepository) scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.BankID,
		&account.Name,
		&account.Number,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	return account, nil
}
