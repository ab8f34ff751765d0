package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the expense total of one category within a month.
type CategoryTotal struct {
	Category   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal // Share of the month's expenses, 0-100, two decimals
}

// Summary compares a month's spending with the budget. It is derived on every read.
type Summary struct {
	Month         time.Time // First day of the month, UTC
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	Net           decimal.Decimal
	Budget        decimal.Decimal
	Remaining     decimal.Decimal
	Progress      decimal.Decimal // Expenses as a percentage of the budget, two decimals
	Categories    []CategoryTotal
}

// MonthlySummary summarizes the calendar month containing month, optionally for a
// single account.
func (s *Service) MonthlySummary(ctx context.Context, month time.Time, accountID *uuid.UUID) (*Summary, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	txs := snap.Transactions
	if accountID != nil {
		filter := TransactionFilter{AccountID: accountID}
		txs = slices.DeleteFunc(slices.Clone(txs), func(t *Transaction) bool { return !filter.Match(t) })
	}

	return Summarize(txs, snap.Budget, month), nil
}

// Summarize computes the summary of the calendar month containing month.
func Summarize(txs []*Transaction, budget decimal.Decimal, month time.Time) *Summary {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	sum := &Summary{
		Month:         start,
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
		Budget:        budget,
	}

	byCategory := make(map[string]decimal.Decimal)

	for _, t := range txs {
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}

		if t.Type == TypeIncome {
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
			continue
		}

		sum.TotalExpenses = sum.TotalExpenses.Add(t.Amount)
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}

	sum.Net = sum.TotalIncome.Sub(sum.TotalExpenses)
	sum.Remaining = budget.Sub(sum.TotalExpenses)
	sum.Progress = percentage(sum.TotalExpenses, budget)

	sum.Categories = make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		sum.Categories = append(sum.Categories, CategoryTotal{
			Category:   category,
			Amount:     amount,
			Percentage: percentage(amount, sum.TotalExpenses),
		})
	}

	slices.SortFunc(sum.Categories, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return strings.Compare(a.Category, b.Category)
	})

	return sum
}

func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Mul(hundred).Div(whole).Round(2)
}
