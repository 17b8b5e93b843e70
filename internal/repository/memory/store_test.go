package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
)

func TestExecTxRollbackRestoresSnapshot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	bank := &models.Bank{UserID: 1, Name: "HBL"}
	require.NoError(t, store.CreateBank(ctx, bank))
	account := &models.Account{BankID: bank.ID, Name: "Main", Number: "001", Balance: decimal.NewFromInt(100)}
	require.NoError(t, store.CreateAccount(ctx, account))

	boom := errors.New("boom")
	err := store.ExecTx(ctx, func(q ledger.Queries) error {
		if _, err := q.UpdateAccountBalance(ctx, account.ID, decimal.NewFromInt(5)); err != nil {
			return err
		}
		other := &models.Bank{UserID: 1, Name: "UBL"}
		if err := q.CreateBank(ctx, other); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Every mutation inside the failed unit is gone.
	got, err := store.GetAccount(ctx, 1, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
	_, err = store.GetBankByName(ctx, 1, "UBL")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestExecTxCommitKeepsMutations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	bank := &models.Bank{UserID: 1, Name: "HBL"}
	require.NoError(t, store.CreateBank(ctx, bank))

	err := store.ExecTx(ctx, func(q ledger.Queries) error {
		return q.CreateAccount(ctx, &models.Account{BankID: bank.ID, Name: "Main", Number: "001"})
	})
	require.NoError(t, err)

	accounts, err := store.ListAccountsByBank(ctx, bank.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestNaturalKeyUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateBank(ctx, &models.Bank{UserID: 1, Name: "HBL"}))
	err := store.CreateBank(ctx, &models.Bank{UserID: 1, Name: "HBL"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateKey)

	bank, err := store.GetBankByName(ctx, 1, "HBL")
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(ctx, &models.Account{BankID: bank.ID, Name: "A", Number: "001"}))
	err = store.CreateAccount(ctx, &models.Account{BankID: bank.ID, Name: "B", Number: "001"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateKey)
}

func TestConcurrentCreateBankOneWinner(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.CreateBank(ctx, &models.Bank{UserID: 1, Name: "HBL"})
		}()
	}
	wg.Wait()
	close(errs)

	var created int
	for err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ledger.ErrDuplicateKey)
		}
	}
	assert.Equal(t, 1, created)

	banks, err := store.ListBanks(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, banks, 1)
}

func TestSnapshotsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	bank := &models.Bank{UserID: 1, Name: "HBL"}
	require.NoError(t, store.CreateBank(ctx, bank))
	account := &models.Account{BankID: bank.ID, Name: "Main", Number: "001", Balance: decimal.NewFromInt(10)}
	require.NoError(t, store.CreateAccount(ctx, account))

	got, err := store.GetAccount(ctx, 1, account.ID)
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(999)

	again, err := store.GetAccount(ctx, 1, account.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(10)), "caller mutation leaked into the store")
}
