// Package memory implements ledger.Store in process memory. One mutex
// serializes every atomic unit, and a snapshot taken at the start of a unit
// is restored on failure, giving the same all-or-nothing semantics as the
// PostgreSQL store. Used for local development and the ledger test suite.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	nextBankID    int64
	nextAccountID int64
	nextTxID      int64
	nextUserID    int64

	banks        map[int64]*models.Bank
	accounts     map[int64]*models.Account
	transactions map[int64]*models.Transaction
	users        map[int64]*models.User
}

func NewStore() *Store {
	return &Store{data: &data{
		banks:        make(map[int64]*models.Bank),
		accounts:     make(map[int64]*models.Account),
		transactions: make(map[int64]*models.Transaction),
		users:        make(map[int64]*models.User),
	}}
}

// ExecTx runs fn while holding the store mutex. On error the pre-unit
// snapshot is restored, so partial mutations are never observable.
func (s *Store) ExecTx(ctx context.Context, fn func(q ledger.Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&queries{d: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (d *data) clone() *data {
	cp := &data{
		nextBankID:    d.nextBankID,
		nextAccountID: d.nextAccountID,
		nextTxID:      d.nextTxID,
		nextUserID:    d.nextUserID,
		banks:         make(map[int64]*models.Bank, len(d.banks)),
		accounts:      make(map[int64]*models.Account, len(d.accounts)),
		transactions:  make(map[int64]*models.Transaction, len(d.transactions)),
		users:         make(map[int64]*models.User, len(d.users)),
	}
	for id, b := range d.banks {
		v := *b
		cp.banks[id] = &v
	}
	for id, a := range d.accounts {
		v := *a
		cp.accounts[id] = &v
	}
	for id, t := range d.transactions {
		v := *t
		cp.transactions[id] = &v
	}
	for id, u := range d.users {
		v := *u
		cp.users[id] = &v
	}
	return cp
}

// queries operates on the dataset without locking; the caller holds the
// store mutex.
type queries struct {
	d *data
}

func (q *queries) CreateBank(ctx context.Context, bank *models.Bank) error {
	for _, b := range q.d.banks {
		if b.UserID == bank.UserID && b.Name == bank.Name {
			return ledger.ErrDuplicateKey
		}
	}
	q.d.nextBankID++
	now := time.Now().UTC()
	bank.ID = q.d.nextBankID
	bank.CreatedAt = now
	bank.UpdatedAt = now
	stored := *bank
	stored.Accounts = nil
	q.d.banks[bank.ID] = &stored
	return nil
}

func (q *queries) GetBank(ctx context.Context, userID, bankID int64) (*models.Bank, error) {
	b, ok := q.d.banks[bankID]
	if !ok || b.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (q *queries) GetBankByName(ctx context.Context, userID int64, name string) (*models.Bank, error) {
	for _, b := range q.d.banks {
		if b.UserID == userID && b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (q *queries) ListBanks(ctx context.Context, userID int64) ([]*models.Bank, error) {
	banks := make([]*models.Bank, 0)
	for _, b := range q.d.banks {
		if b.UserID == userID {
			cp := *b
			banks = append(banks, &cp)
		}
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })
	return banks, nil
}

func (q *queries) DeleteBank(ctx context.Context, userID, bankID int64) error {
	b, ok := q.d.banks[bankID]
	if !ok || b.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(q.d.banks, bankID)

	removed := make(map[int64]bool)
	for id, a := range q.d.accounts {
		if a.BankID == bankID {
			removed[id] = true
			delete(q.d.accounts, id)
		}
	}
	for id, t := range q.d.transactions {
		if removed[t.AccountID] || (t.ToAccountID != nil && removed[*t.ToAccountID]) {
			delete(q.d.transactions, id)
		}
	}
	return nil
}

func (q *queries) CreateAccount(ctx context.Context, account *models.Account) error {
	if _, ok := q.d.banks[account.BankID]; !ok {
		return ledger.ErrNotFound
	}
	for _, a := range q.d.accounts {
		if a.BankID == account.BankID && a.Number == account.Number {
			return ledger.ErrDuplicateKey
		}
	}
	q.d.nextAccountID++
	now := time.Now().UTC()
	account.ID = q.d.nextAccountID
	account.CreatedAt = now
	account.UpdatedAt = now
	stored := *account
	q.d.accounts[account.ID] = &stored
	return nil
}

func (q *queries) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	a, ok := q.d.accounts[accountID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	// Ownership is derived through the bank, never stored on the account.
	b, ok := q.d.banks[a.BankID]
	if !ok || b.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (q *queries) GetAccountForUpdate(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	// The store mutex already serializes the atomic unit.
	return q.GetAccount(ctx, userID, accountID)
}

func (q *queries) GetAccountByNumber(ctx context.Context, bankID int64, number string) (*models.Account, error) {
	for _, a := range q.d.accounts {
		if a.BankID == bankID && a.Number == number {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (q *queries) ListAccountsByBank(ctx context.Context, bankID int64) ([]*models.Account, error) {
	accounts := make([]*models.Account, 0)
	for _, a := range q.d.accounts {
		if a.BankID == bankID {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (q *queries) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) (*models.Account, error) {
	a, ok := q.d.accounts[accountID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	updated := *a
	updated.Balance = balance
	updated.UpdatedAt = time.Now().UTC()
	q.d.accounts[accountID] = &updated
	cp := updated
	return &cp, nil
}

func (q *queries) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	q.d.nextTxID++
	now := time.Now().UTC()
	tx.ID = q.d.nextTxID
	tx.CreatedAt = now
	tx.UpdatedAt = now
	stored := *tx
	q.d.transactions[tx.ID] = &stored
	return nil
}

func (q *queries) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	txs := make([]*models.Transaction, 0)
	for _, t := range q.d.transactions {
		if t.UserID == userID {
			cp := *t
			txs = append(txs, &cp)
		}
	}
	sortNewestFirst(txs)
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (q *queries) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	txs := make([]*models.Transaction, 0)
	for _, t := range q.d.transactions {
		if t.AccountID == accountID {
			cp := *t
			txs = append(txs, &cp)
		}
	}
	sortNewestFirst(txs)
	return txs, nil
}

func (q *queries) TransactionTotals(ctx context.Context, userID int64) (decimal.Decimal, decimal.Decimal, error) {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range q.d.transactions {
		if t.UserID != userID {
			continue
		}
		switch t.Type {
		case models.TypeDeposit:
			income = income.Add(t.Amount)
		case models.TypeWithdrawal, models.TypeExternalTransfer:
			expenses = expenses.Add(t.Amount.Neg())
		}
	}
	return income, expenses, nil
}

func sortNewestFirst(txs []*models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.After(txs[j].CreatedAt)
		}
		return txs[i].ID > txs[j].ID
	})
}
