package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
	"github.com/MrJamesThe3rd/wealth/internal/ledger/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	txs := []*ledger.Transaction{
		{Type: ledger.TypeExpense, Amount: dec("250"), Category: "Food & Dining", Date: day(2024, 1, 15)},
		{Type: ledger.TypeIncome, Amount: dec("3000"), Category: "Salary", Date: day(2024, 1, 1)},
		{Type: ledger.TypeExpense, Amount: dec("80"), Category: "Transportation", Date: day(2024, 1, 14)},
		{Type: ledger.TypeExpense, Amount: dec("170"), Category: "Food & Dining", Date: day(2024, 1, 31)},
		{Type: ledger.TypeExpense, Amount: dec("999"), Category: "Travel", Date: day(2024, 2, 1)},
		{Type: ledger.TypeExpense, Amount: dec("1"), Category: "Travel", Date: day(2023, 12, 31)},
	}

	got := ledger.Summarize(txs, dec("2500"), day(2024, 1, 20))

	assert.Equal(t, day(2024, 1, 1), got.Month)
	assert.True(t, dec("500").Equal(got.TotalExpenses), got.TotalExpenses.String())
	assert.True(t, dec("3000").Equal(got.TotalIncome))
	assert.True(t, dec("2500").Equal(got.Net))
	assert.True(t, dec("2000").Equal(got.Remaining))
	assert.True(t, dec("20").Equal(got.Progress), got.Progress.String())

	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Food & Dining", got.Categories[0].Category)
	assert.True(t, dec("420").Equal(got.Categories[0].Amount))
	assert.True(t, dec("84").Equal(got.Categories[0].Percentage))
	assert.Equal(t, "Transportation", got.Categories[1].Category)
	assert.True(t, dec("16").Equal(got.Categories[1].Percentage))
}

func TestSummarize_EdgeCases(t *testing.T) {
	type testCase struct {
		name         string
		txs          []*ledger.Transaction
		budget       string
		wantProgress string
		wantOrder    []string
	}

	tests := []testCase{
		{
			name:         "Empty",
			budget:       "100",
			wantProgress: "0",
			wantOrder:    []string{},
		},
		{
			name: "ZeroBudget",
			txs: []*ledger.Transaction{
				{Type: ledger.TypeExpense, Amount: dec("10"), Category: "Shopping", Date: day(2024, 3, 3)},
			},
			budget:       "0",
			wantProgress: "0",
			wantOrder:    []string{"Shopping"},
		},
		{
			name: "OverBudget",
			txs: []*ledger.Transaction{
				{Type: ledger.TypeExpense, Amount: dec("30"), Category: "Shopping", Date: day(2024, 3, 3)},
			},
			budget:       "20",
			wantProgress: "150",
			wantOrder:    []string{"Shopping"},
		},
		{
			name: "TiesOrderedByName",
			txs: []*ledger.Transaction{
				{Type: ledger.TypeExpense, Amount: dec("10"), Category: "Travel", Date: day(2024, 3, 3)},
				{Type: ledger.TypeExpense, Amount: dec("10"), Category: "Education", Date: day(2024, 3, 4)},
				{Type: ledger.TypeExpense, Amount: dec("10"), Category: "Healthcare", Date: day(2024, 3, 5)},
			},
			budget:       "90",
			wantProgress: "33.33",
			wantOrder:    []string{"Education", "Healthcare", "Travel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Summarize(tt.txs, dec(tt.budget), day(2024, 3, 1))

			assert.Truef(t, dec(tt.wantProgress).Equal(got.Progress), "progress %s", got.Progress)

			order := make([]string, 0, len(got.Categories))
			for _, c := range got.Categories {
				order = append(order, c.Category)
			}

			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestService_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(store.New(store.WithSeed(store.Demo())))

	sum, err := svc.MonthlySummary(ctx, day(2024, 1, 5), nil)
	require.NoError(t, err)
	assert.True(t, dec("330").Equal(sum.TotalExpenses))
	assert.True(t, dec("2500").Equal(sum.Budget))
	assert.True(t, dec("13.2").Equal(sum.Progress), sum.Progress.String())

	other := uuid.New()
	sum, err = svc.MonthlySummary(ctx, day(2024, 1, 5), &other)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(sum.TotalExpenses))
	assert.Empty(t, sum.Categories)
}
