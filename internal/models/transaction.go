package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit          TransactionType = "deposit"
	TypeWithdrawal       TransactionType = "withdrawal"
	TypeTransfer         TransactionType = "transfer"
	TypeExternalTransfer TransactionType = "external_transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeExternalTransfer:
		return true
	}
	return false
}

// Transaction is an immutable record of a balance-affecting event.
//
// Amount stores the signed effect on the primary account: positive for
// deposits and the credit leg of an internal transfer, negative for
// withdrawals, external transfers and the debit leg of an internal transfer.
// ToAccountID is set only on the debit leg of an internal transfer.
type Transaction struct {
	ID               int64           `json:"id"`
	Reference        string          `json:"reference"`
	UserID           int64           `json:"user_id"`
	AccountID        int64           `json:"account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Type             TransactionType `json:"type"`
	Description      string          `json:"description"`
	ToAccountID      *int64          `json:"to_account_id,omitempty"`
	RecipientName    *string         `json:"recipient_name,omitempty"`
	RecipientDetails *string         `json:"recipient_details,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
