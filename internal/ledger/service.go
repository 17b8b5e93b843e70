package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/models"
)

// recentTransactionsLimit is the size of the dashboard history view.
const recentTransactionsLimit = 10

// Service exposes the core ledger operations to the request-handling layer.
// Every entry point takes the pre-authenticated user id explicitly; there is
// no ambient current-user state.
type Service struct {
	store  Store
	events EventPublisher
}

// NewService creates a ledger service on top of store. events may be nil, in
// which case no transaction events are published.
func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// CreateBank creates a bank for the user. Bank names are unique per user.
func (s *Service) CreateBank(ctx context.Context, userID int64, name string) (*models.Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	bank := &models.Bank{UserID: userID, Name: name}
	if err := s.store.CreateBank(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// DeleteBank removes the user's bank together with its accounts and their
// transactions.
func (s *Service) DeleteBank(ctx context.Context, userID, bankID int64) error {
	return s.store.DeleteBank(ctx, userID, bankID)
}

// ListBanks returns the user's banks with their accounts attached.
func (s *Service) ListBanks(ctx context.Context, userID int64) ([]*models.Bank, error) {
	banks, err := s.store.ListBanks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, bank := range banks {
		accounts, err := s.store.ListAccountsByBank(ctx, bank.ID)
		if err != nil {
			return nil, err
		}
		bank.Accounts = accounts
	}
	return banks, nil
}

// CreateAccount creates an account in one of the user's banks. Account
// numbers are unique per bank. The opening balance must not be negative.
func (s *Service) CreateAccount(ctx context.Context, userID, bankID int64, name, number string, balance decimal.Decimal) (*models.Account, error) {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if number == "" {
		return nil, &ValidationError{Field: "number", Reason: "required"}
	}
	if balance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	account := &models.Account{BankID: bankID, Name: name, Number: number, Balance: balance}
	err := s.store.ExecTx(ctx, func(q Queries) error {
		if _, err := q.GetBank(ctx, userID, bankID); err != nil {
			return err
		}
		return q.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// RecordTransactionInput carries one requested balance-affecting event.
// Amount is the caller-supplied positive magnitude regardless of type.
type RecordTransactionInput struct {
	AccountID        int64
	Type             models.TransactionType
	Amount           decimal.Decimal
	Description      string
	ToAccountID      *int64
	RecipientName    string
	RecipientDetails string
}

func (in *RecordTransactionInput) validate() error {
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown transaction type"}
	}
	if !in.Amount.IsPositive() || !hasCentPrecision(in.Amount) {
		return ErrInvalidAmount
	}
	switch in.Type {
	case models.TypeTransfer:
		if in.ToAccountID == nil {
			return &ValidationError{Field: "to_account_id", Reason: "required for transfers"}
		}
		if *in.ToAccountID == in.AccountID {
			return ErrInvalidTransfer
		}
	case models.TypeExternalTransfer:
		if strings.TrimSpace(in.RecipientName) == "" {
			return &ValidationError{Field: "recipient_name", Reason: "required for external transfers"}
		}
	}
	return nil
}

// RecordTransaction validates and applies one transaction against the user's
// account inside a single atomic unit: the balance change and the history
// row (two rows for an internal transfer) commit or roll back together. For
// transfers the returned transaction is the debit leg.
func (s *Service) RecordTransaction(ctx context.Context, userID int64, in RecordTransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created []*models.Transaction
	err := s.store.ExecTx(ctx, func(q Queries) error {
		created = created[:0]
		switch in.Type {
		case models.TypeTransfer:
			_, _, legs, err := s.transferLegs(ctx, q, userID, in.AccountID, *in.ToAccountID, in.Amount, in.Description)
			if err != nil {
				return err
			}
			created = append(created, legs...)
			return nil
		case models.TypeDeposit:
			tx, err := s.applyAndRecord(ctx, q, userID, in, in.Amount)
			if err != nil {
				return err
			}
			created = append(created, tx)
			return nil
		default: // withdrawal, external transfer
			tx, err := s.applyAndRecord(ctx, q, userID, in, in.Amount.Neg())
			if err != nil {
				return err
			}
			created = append(created, tx)
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created...)
	return created[0], nil
}

// applyAndRecord mutates one account by delta and records the matching
// history row. Must run inside an atomic unit.
func (s *Service) applyAndRecord(ctx context.Context, q Queries, userID int64, in RecordTransactionInput, delta decimal.Decimal) (*models.Transaction, error) {
	account, err := q.GetAccountForUpdate(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := applyDelta(ctx, q, account, delta); err != nil {
		return nil, err
	}

	tx := newTransaction(userID, in.AccountID, in.Type, delta, in.Description)
	if in.Type == models.TypeExternalTransfer {
		name := strings.TrimSpace(in.RecipientName)
		tx.RecipientName = &name
		if details := strings.TrimSpace(in.RecipientDetails); details != "" {
			tx.RecipientDetails = &details
		}
	}
	if err := q.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// TransferResult holds both updated account snapshots after an internal
// transfer.
type TransferResult struct {
	FromAccount *models.Account `json:"from_account"`
	ToAccount   *models.Account `json:"to_account"`
}

// TransferFunds moves amount between two of the user's accounts as one
// atomic unit: debit, credit and both history rows commit or roll back
// together. amount must parse as a positive fixed-point decimal; a transfer
// onto the source account itself is rejected before any state is touched.
func (s *Service) TransferFunds(ctx context.Context, userID, fromID, toID int64, amount, description string) (*TransferResult, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, ErrInvalidTransfer
	}

	var (
		result TransferResult
		legs   []*models.Transaction
	)
	err = s.store.ExecTx(ctx, func(q Queries) error {
		from, to, created, err := s.transferLegs(ctx, q, userID, fromID, toID, amt, description)
		if err != nil {
			return err
		}
		result = TransferResult{FromAccount: from, ToAccount: to}
		legs = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, legs...)
	return &result, nil
}

// transferLegs debits the source, credits the destination and records both
// legs. Rows are locked in ascending account-id order so two opposite
// transfers cannot deadlock. Must run inside an atomic unit.
func (s *Service) transferLegs(ctx context.Context, q Queries, userID, fromID, toID int64, amount decimal.Decimal, description string) (*models.Account, *models.Account, []*models.Transaction, error) {
	lockOrder := [2]int64{fromID, toID}
	if toID < fromID {
		lockOrder[0], lockOrder[1] = toID, fromID
	}
	locked := make(map[int64]*models.Account, 2)
	for _, id := range lockOrder {
		account, err := q.GetAccountForUpdate(ctx, userID, id)
		if err != nil {
			return nil, nil, nil, err
		}
		locked[id] = account
	}

	from, err := applyDelta(ctx, q, locked[fromID], amount.Neg())
	if err != nil {
		return nil, nil, nil, err
	}
	to, err := applyDelta(ctx, q, locked[toID], amount)
	if err != nil {
		return nil, nil, nil, err
	}

	debit := newTransaction(userID, fromID, models.TypeTransfer, amount.Neg(), description)
	debit.ToAccountID = &toID
	credit := newTransaction(userID, toID, models.TypeTransfer, amount, description)
	if err := q.CreateTransaction(ctx, debit); err != nil {
		return nil, nil, nil, err
	}
	if err := q.CreateTransaction(ctx, credit); err != nil {
		return nil, nil, nil, err
	}
	return from, to, []*models.Transaction{debit, credit}, nil
}

// applyDelta applies one signed balance change with the insufficient-funds
// guard. It is not itself transactional; callers hold the enclosing atomic
// unit and the row lock.
func applyDelta(ctx context.Context, q Queries, account *models.Account, delta decimal.Decimal) (*models.Account, error) {
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	return q.UpdateAccountBalance(ctx, account.ID, newBalance)
}

func newTransaction(userID, accountID int64, typ models.TransactionType, amount decimal.Decimal, description string) *models.Transaction {
	return &models.Transaction{
		Reference:   uuid.New().String(),
		UserID:      userID,
		AccountID:   accountID,
		Amount:      amount,
		Type:        typ,
		Description: strings.TrimSpace(description),
	}
}

func (s *Service) publish(ctx context.Context, txs ...*models.Transaction) {
	if s.events == nil {
		return
	}
	for _, tx := range txs {
		s.events.TransactionCreated(ctx, tx)
	}
}

// AccountSetup seeds one account during provisioning.
type AccountSetup struct {
	Number  string
	Title   string
	Balance decimal.Decimal
}

// BankSetup seeds one bank and its accounts during provisioning.
type BankSetup struct {
	BankName string
	Accounts []AccountSetup
}

// ProvisionBanks creates-or-reuses banks and accounts by natural key, as one
// atomic unit. Existing accounts keep their balance; only newly created ones
// are seeded from the entry defaults. Any invalid entry aborts the whole
// batch before provisioning starts.
func (s *Service) ProvisionBanks(ctx context.Context, userID int64, setups []BankSetup) ([]*models.Bank, error) {
	for _, setup := range setups {
		if strings.TrimSpace(setup.BankName) == "" {
			return nil, &ValidationError{Field: "bank_name", Reason: "required"}
		}
		for _, acct := range setup.Accounts {
			if strings.TrimSpace(acct.Number) == "" {
				return nil, &ValidationError{Field: "number", Reason: "required"}
			}
			if acct.Balance.IsNegative() {
				return nil, ErrInvalidAmount
			}
		}
	}

	var banks []*models.Bank
	err := s.store.ExecTx(ctx, func(q Queries) error {
		banks = banks[:0]
		for _, setup := range setups {
			bank, err := getOrCreateBank(ctx, q, userID, strings.TrimSpace(setup.BankName))
			if err != nil {
				return err
			}
			for _, acct := range setup.Accounts {
				account := &models.Account{
					BankID:  bank.ID,
					Name:    strings.TrimSpace(acct.Title),
					Number:  strings.TrimSpace(acct.Number),
					Balance: acct.Balance,
				}
				err := q.CreateAccount(ctx, account)
				if errors.Is(err, ErrDuplicateKey) {
					// Already provisioned: observe the existing row and
					// leave its balance untouched.
					if _, err := q.GetAccountByNumber(ctx, bank.ID, account.Number); err != nil {
						return err
					}
					continue
				}
				if err != nil {
					return err
				}
			}
			accounts, err := q.ListAccountsByBank(ctx, bank.ID)
			if err != nil {
				return err
			}
			bank.Accounts = accounts
			banks = append(banks, bank)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return banks, nil
}

// getOrCreateBank resolves a bank by (user, name) with insert-then-refetch
// semantics: the loser of a concurrent race observes the winner's row.
func getOrCreateBank(ctx context.Context, q Queries, userID int64, name string) (*models.Bank, error) {
	bank := &models.Bank{UserID: userID, Name: name}
	err := q.CreateBank(ctx, bank)
	if errors.Is(err, ErrDuplicateKey) {
		return q.GetBankByName(ctx, userID, name)
	}
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// DashboardData is the per-user summary view.
type DashboardData struct {
	Banks              []*models.Bank        `json:"banks"`
	RecentTransactions []*models.Transaction `json:"recent_transactions"`
	TotalBalance       decimal.Decimal       `json:"total_balance"`
	TotalIncome        decimal.Decimal       `json:"total_income"`
	TotalExpenses      decimal.Decimal       `json:"total_expenses"`
	TotalAccounts      int                   `json:"total_accounts"`
}

// Dashboard derives the user's summary: total balance across accounts,
// income and expense totals over the transaction history, and the ten most
// recent transactions. Plain reads, recomputed per request; no long-held
// locks.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*DashboardData, error) {
	banks, err := s.ListBanks(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalBalance := decimal.Zero
	totalAccounts := 0
	for _, bank := range banks {
		for _, account := range bank.Accounts {
			totalBalance = totalBalance.Add(account.Balance)
			totalAccounts++
		}
	}

	recent, err := s.store.ListRecentTransactions(ctx, userID, recentTransactionsLimit)
	if err != nil {
		return nil, err
	}
	income, expenses, err := s.store.TransactionTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Banks:              banks,
		RecentTransactions: recent,
		TotalBalance:       totalBalance,
		TotalIncome:        income,
		TotalExpenses:      expenses,
		TotalAccounts:      totalAccounts,
	}, nil
}
