package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
	"github.com/MrJamesThe3rd/wealth/internal/ledger/store"
)

func TestStore_CommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	account := &ledger.Account{ID: uuid.New(), Name: "Checking", Balance: decimal.NewFromInt(10)}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertAccount(ctx, account))
	require.NoError(t, tx.AdjustBalance(ctx, account.ID, decimal.NewFromInt(5)))
	require.NoError(t, tx.SetBudget(ctx, decimal.NewFromInt(300)))
	require.NoError(t, tx.Commit())

	got, err := s.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Balance))

	budget, err := s.Budget(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(budget))

	assert.NoError(t, tx.Rollback(), "rollback after commit is a no-op")
	assert.ErrorIs(t, tx.Commit(), store.ErrTxDone)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertAccount(ctx, &ledger.Account{ID: uuid.New(), Name: "Ghost"}))
	require.NoError(t, tx.Rollback())

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = tx.ListAccounts(ctx)
	assert.ErrorIs(t, err, store.ErrTxDone)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	interval := ledger.IntervalWeekly
	seedTx := ledger.Transaction{
		ID:                uuid.New(),
		Type:              ledger.TypeIncome,
		Amount:            decimal.NewFromInt(1),
		IsRecurring:       true,
		RecurringInterval: &interval,
	}
	s := store.New(store.WithSeed(store.Seed{Transactions: []ledger.Transaction{seedTx}}))

	got, err := s.GetTransaction(ctx, seedTx.ID)
	require.NoError(t, err)

	*got.RecurringInterval = ledger.IntervalDaily
	got.Description = "mutated"

	again, err := s.GetTransaction(ctx, seedTx.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.IntervalWeekly, *again.RecurringInterval)
	assert.Empty(t, again.Description)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	_, err := s.GetAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = s.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.ErrorIs(t, tx.AdjustBalance(ctx, uuid.New(), decimal.NewFromInt(1)), ledger.ErrNotFound)
	assert.ErrorIs(t, tx.DeleteAccount(ctx, uuid.New()), ledger.ErrNotFound)
	assert.ErrorIs(t, tx.DeleteTransaction(ctx, uuid.New()), ledger.ErrNotFound)
}

func TestStore_ClearDefaultsAndCascade(t *testing.T) {
	ctx := context.Background()
	a := ledger.Account{ID: uuid.New(), IsDefault: true}
	b := ledger.Account{ID: uuid.New(), IsDefault: true}
	s := store.New(store.WithSeed(store.Seed{
		Accounts: []ledger.Account{a, b},
		Transactions: []ledger.Transaction{
			{ID: uuid.New(), AccountID: a.ID},
			{ID: uuid.New(), AccountID: b.ID},
			{ID: uuid.New(), AccountID: a.ID},
		},
	}))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.ClearDefaults(ctx, b.ID))

	n, err := tx.DeleteTransactionsByAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, tx.Commit())

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.False(t, accounts[0].IsDefault)
	assert.True(t, accounts[1].IsDefault)

	txs, err := s.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, b.ID, txs[0].AccountID)
}

func TestStore_ListTransactionsFilter(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	s := store.New(store.WithSeed(store.Seed{
		Transactions: []ledger.Transaction{
			{ID: uuid.New(), AccountID: accountID, Type: ledger.TypeExpense, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), AccountID: accountID, Type: ledger.TypeIncome, Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), AccountID: uuid.New(), Type: ledger.TypeExpense, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
	}))

	type testCase struct {
		name    string
		filter  ledger.TransactionFilter
		wantLen int
	}

	tests := []testCase{
		{name: "All", filter: ledger.TransactionFilter{}, wantLen: 3},
		{name: "Account", filter: ledger.TransactionFilter{AccountID: &accountID}, wantLen: 2},
		{name: "Type", filter: ledger.TransactionFilter{Type: new(ledger.TypeExpense)}, wantLen: 2},
		{
			name: "InclusiveDateRange",
			filter: ledger.TransactionFilter{
				StartDate: new(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
				EndDate:   new(time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC)),
			},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestStore_BeginHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.New().Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_WritersAreSerialized(t *testing.T) {
	ctx := context.Background()
	account := ledger.Account{ID: uuid.New()}
	s := store.New(store.WithSeed(store.Seed{Accounts: []ledger.Account{account}}))

	var wg sync.WaitGroup

	for range 50 {
		wg.Go(func() {
			tx, err := s.Begin(ctx)
			if err != nil {
				return
			}
			defer tx.Rollback()

			_ = tx.AdjustBalance(ctx, account.ID, decimal.NewFromInt(1))
			_ = tx.Commit()
		})
	}

	wg.Wait()

	got, err := s.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Balance))
}

func TestDemo(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.WithSeed(store.Demo()))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Accounts, 2)
	assert.Len(t, snap.Transactions, 3)
	assert.True(t, decimal.NewFromInt(2500).Equal(snap.Budget))
	assert.True(t, snap.Accounts[0].IsDefault)
}
