package dto

import (
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

// RecordTransactionRequest is the payload for deposits, withdrawals and
// transfers. Amount is a string so values reach the core as exact
// fixed-point decimals.
type RecordTransactionRequest struct {
	AccountID        int64  `json:"account_id"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
	ToAccountID      *int64 `json:"to_account_id,omitempty"`
	RecipientName    string `json:"recipient_name,omitempty"`
	RecipientDetails string `json:"recipient_details,omitempty"`
}

// ToInput parses the request into the core's input type.
func (r *RecordTransactionRequest) ToInput() (ledger.RecordTransactionInput, error) {
	amount, err := ledger.ParseAmount(r.Amount)
	if err != nil {
		return ledger.RecordTransactionInput{}, err
	}
	return ledger.RecordTransactionInput{
		AccountID:        r.AccountID,
		Type:             models.TransactionType(r.Type),
		Amount:           amount,
		Description:      r.Description,
		ToAccountID:      r.ToAccountID,
		RecipientName:    r.RecipientName,
		RecipientDetails: r.RecipientDetails,
	}, nil
}

type TransferRequest struct {
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}
