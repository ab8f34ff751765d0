package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Seed is the initial content of a store.
type Seed struct {
	Accounts     []ledger.Account
	Transactions []ledger.Transaction
	Budget       decimal.Decimal
}

// Demo returns a small ledger for trying the application out: a default checking
// account with a few January 2024 entries, a savings account and a 2500 budget.
func Demo() Seed {
	checking := uuid.New()
	savings := uuid.New()

	return Seed{
		Accounts: []ledger.Account{
			{
				ID:        checking,
				Name:      "Main Checking",
				Type:      ledger.AccountTypeCurrent,
				Balance:   decimal.RequireFromString("5420.50"),
				IsDefault: true,
			},
			{
				ID:      savings,
				Name:    "Savings Account",
				Type:    ledger.AccountTypeSavings,
				Balance: decimal.RequireFromString("12800.00"),
			},
		},
		Transactions: []ledger.Transaction{
			{
				ID:          uuid.New(),
				Type:        ledger.TypeExpense,
				Amount:      decimal.RequireFromString("250.00"),
				AccountID:   checking,
				Category:    "Food & Dining",
				Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Description: "Grocery shopping",
			},
			{
				ID:                uuid.New(),
				Type:              ledger.TypeIncome,
				Amount:            decimal.RequireFromString("3000.00"),
				AccountID:         checking,
				Category:          "Salary",
				Date:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Description:       "Monthly salary",
				IsRecurring:       true,
				RecurringInterval: new(ledger.IntervalMonthly),
			},
			{
				ID:          uuid.New(),
				Type:        ledger.TypeExpense,
				Amount:      decimal.RequireFromString("80.00"),
				AccountID:   checking,
				Category:    "Transportation",
				Date:        time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
				Description: "Gas station",
			},
		},
		Budget: decimal.NewFromInt(2500),
	}
}
