package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

// Direct Store calls take the mutex per call, mirroring single-statement
// reads and writes on the SQL store.

func (s *Store) CreateBank(ctx context.Context, bank *models.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).CreateBank(ctx, bank)
}

func (s *Store) GetBank(ctx context.Context, userID, bankID int64) (*models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).GetBank(ctx, userID, bankID)
}

func (s *Store) GetBankByName(ctx context.Context, userID int64, name string) (*models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).GetBankByName(ctx, userID, name)
}

func (s *Store) ListBanks(ctx context.Context, userID int64) ([]*models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).ListBanks(ctx, userID)
}

func (s *Store) DeleteBank(ctx context.Context, userID, bankID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).DeleteBank(ctx, userID, bankID)
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).CreateAccount(ctx, account)
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).GetAccount(ctx, userID, accountID)
}

func (s *Store) GetAccountForUpdate(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).GetAccountForUpdate(ctx, userID, accountID)
}

func (s *Store) GetAccountByNumber(ctx context.Context, bankID int64, number string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).GetAccountByNumber(ctx, bankID, number)
}

func (s *Store) ListAccountsByBank(ctx context.Context, bankID int64) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).ListAccountsByBank(ctx, bankID)
}

func (s *Store) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).UpdateAccountBalance(ctx, accountID, balance)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).CreateTransaction(ctx, tx)
}

func (s *Store) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).ListRecentTransactions(ctx, userID, limit)
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).ListTransactionsByAccount(ctx, accountID)
}

func (s *Store) TransactionTotals(ctx context.Context, userID int64) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&queries{d: s.data}).TransactionTotals(ctx, userID)
}

// User storage for the auth collaborator; outside the ledger store contract.

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ledger.ErrDuplicateKey
		}
	}
	s.data.nextUserID++
	now := time.Now().UTC()
	user.ID = s.data.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	s.data.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
