package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a balance-bearing entity within a bank. (bank_id, number) is
// unique. The owning user is derived through the bank, never stored here.
type Account struct {
	ID        int64           `json:"id"`
	BankID    int64           `json:"bank_id"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
