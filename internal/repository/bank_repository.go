package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

type BankRepository struct {
	db DBTX
}

func NewBankRepository(db DBTX) *BankRepository {
	return &BankRepository{db: db}
}

// CreateBank inserts a bank. A (user_id, name) collision surfaces as
// ledger.ErrDuplicateKey. ON CONFLICT DO NOTHING keeps the collision from
// aborting the enclosing transaction, so get-or-create callers can refetch
// the existing row in the same atomic unit.
func (r *BankRepository) CreateBank(ctx context.Context, bank *models.Bank) error {
	query := `
		INSERT INTO banks (user_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, bank.UserID, bank.Name).
		Scan(&bank.ID, &bank.CreatedAt, &bank.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing inserted: the natural key is already taken.
		return ledger.ErrDuplicateKey
	}
	return wrapErr(err)
}

// GetBank gets the user's bank by id.
func (r *BankRepository) GetBank(ctx context.Context, userID, bankID int64) (*models.Bank, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM banks
		WHERE id = $1 AND user_id = $2
	`
	return r.scanBank(r.db.QueryRowContext(ctx, query, bankID, userID))
}

// GetBankByName gets the user's bank by its natural key.
func (r *BankRepository) GetBankByName(ctx context.Context, userID int64, name string) (*models.Bank, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM banks
		WHERE user_id = $1 AND name = $2
	`
	return r.scanBank(r.db.QueryRowContext(ctx, query, userID, name))
}

// ListBanks returns all of the user's banks ordered by name.
func (r *BankRepository) ListBanks(ctx context.Context, userID int64) ([]*models.Bank, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM banks
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	banks := make([]*models.Bank, 0)
	for rows.Next() {
		bank := &models.Bank{}
		if err := rows.Scan(&bank.ID, &bank.UserID, &bank.Name, &bank.CreatedAt, &bank.UpdatedAt); err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, rows.Err()
}

// DeleteBank removes the user's bank. Accounts and transactions go with it
// via ON DELETE CASCADE.
func (r *BankRepository) DeleteBank(ctx context.Context, userID, bankID int64) error {
	query := `DELETE FROM banks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, bankID, userID)
	if err != nil {
		return wrapErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *BankRepository) scanBank(row rowScanner) (*models.Bank, error) {
	bank := &models.Bank{}
	err := row.Scan(&bank.ID, &bank.UserID, &bank.Name, &bank.CreatedAt, &bank.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return bank, nil
}
