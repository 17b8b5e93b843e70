package dto

import (
	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/ledger"
)

type CreateBankRequest struct {
	Name string `json:"name"`
}

type CreateAccountRequest struct {
	BankID  int64           `json:"bank_id"`
	Name    string          `json:"name"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// SetupBanksRequest is the onboarding import payload: each entry is
// provisioned idempotently by natural key.
type SetupBanksRequest struct {
	Banks []BankSetupEntry `json:"banks"`
}

type BankSetupEntry struct {
	BankName string              `json:"bank_name"`
	Accounts []AccountSetupEntry `json:"accounts"`
}

type AccountSetupEntry struct {
	Title   string          `json:"title"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// ToSetups converts the request into the core's provisioning input.
func (r *SetupBanksRequest) ToSetups() []ledger.BankSetup {
	setups := make([]ledger.BankSetup, 0, len(r.Banks))
	for _, b := range r.Banks {
		setup := ledger.BankSetup{BankName: b.BankName}
		for _, a := range b.Accounts {
			setup.Accounts = append(setup.Accounts, ledger.AccountSetup{
				Number:  a.Number,
				Title:   a.Title,
				Balance: a.Balance,
			})
		}
		setups = append(setups, setup)
	}
	return setups
}
