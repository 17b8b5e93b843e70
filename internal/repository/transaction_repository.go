package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/models"
)

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, reference, user_id, account_id, amount, type, description,
		to_account_id, recipient_name, recipient_details, created_at, updated_at`

// CreateTransaction inserts one immutable history row. There is no update or
// delete counterpart.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (reference, user_id, account_id, amount, type, description,
			to_account_id, recipient_name, recipient_details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		tx.Reference,
		tx.UserID,
		tx.AccountID,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.ToAccountID,
		tx.RecipientName,
		tx.RecipientDetails,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	return wrapErr(err)
}

// ListRecentTransactions returns the user's most recent transactions, newest
// first.
func (r *TransactionRepository) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.queryTransactions(ctx, query, userID, limit)
}

// ListTransactionsByAccount returns every row where the account is primary,
// newest first.
func (r *TransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryTransactions(ctx, query, accountID)
}

// TransactionTotals sums the user's income (deposits) and expenses
// (withdrawals and external transfers, as positive magnitudes). Amounts are
// stored signed, so expenses negate the stored sum.
func (r *TransactionRepository) TransactionTotals(ctx context.Context, userID int64) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type IN ('withdrawal', 'external_transfer') THEN -amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = $1
	`

	var income, expenses decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&income, &expenses); err != nil {
		return decimal.Zero, decimal.Zero, wrapErr(err)
	}
	return income, expenses, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	txs := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx               models.Transaction
		toAccountID      sql.NullInt64
		recipientName    sql.NullString
		recipientDetails sql.NullString
	)
	err := row.Scan(
		&tx.ID,
		&tx.Reference,
		&tx.UserID,
		&tx.AccountID,
		&tx.Amount,
		&tx.Type,
		&tx.Description,
		&toAccountID,
		&recipientName,
		&recipientDetails,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	if toAccountID.Valid {
		tx.ToAccountID = &toAccountID.Int64
	}
	if recipientName.Valid {
		tx.RecipientName = &recipientName.String
	}
	if recipientDetails.Valid {
		tx.RecipientDetails = &recipientDetails.String
	}
	return &tx, nil
}
