package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCurrent    AccountType = "current"
	AccountTypeInvestment AccountType = "investment"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeCurrent, AccountTypeInvestment:
		return true
	}

	return false
}

// TransactionType represents the direction of a transaction (income or expense).
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Interval describes how often a recurring transaction repeats. It is descriptive only.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// Valid reports whether i is one of the known intervals.
func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}

	return false
}

// Account is a named balance that transactions move money in and out of.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	IsDefault bool
}

// Transaction is a single income or expense entry against an account.
type Transaction struct {
	ID                uuid.UUID
	Type              TransactionType
	Amount            decimal.Decimal // Positive magnitude, sign comes from Type
	AccountID         uuid.UUID
	Category          string
	Date              time.Time // Calendar date, midnight UTC
	Description       string
	IsRecurring       bool
	RecurringInterval *Interval // Only set when IsRecurring
}

// Delta is the signed amount the transaction contributes to its account balance.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}

	return t.Amount.Neg()
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.RecurringInterval != nil {
		c.RecurringInterval = new(*t.RecurringInterval)
	}

	return &c
}

func (t *Transaction) normalize() {
	t.Date = DateOf(t.Date)

	if !t.IsRecurring {
		t.RecurringInterval = nil
	}
}

// NewAccount holds the caller-supplied fields of an account to create.
type NewAccount struct {
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	IsDefault bool
}

// AccountUpdate is a partial account; nil fields are left untouched.
type AccountUpdate struct {
	Name      *string
	Type      *AccountType
	Balance   *decimal.Decimal
	IsDefault *bool
}

func (u AccountUpdate) apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}

	if u.Type != nil {
		a.Type = *u.Type
	}

	if u.Balance != nil {
		a.Balance = *u.Balance
	}

	if u.IsDefault != nil {
		a.IsDefault = *u.IsDefault
	}
}

// NewTransaction holds the caller-supplied fields of a transaction to create.
type NewTransaction struct {
	Type              TransactionType
	Amount            decimal.Decimal
	AccountID         uuid.UUID
	Category          string
	Date              time.Time
	Description       string
	IsRecurring       bool
	RecurringInterval *Interval
}

// TransactionUpdate is a partial transaction; nil fields are left untouched.
type TransactionUpdate struct {
	Type              *TransactionType
	Amount            *decimal.Decimal
	AccountID         *uuid.UUID
	Category          *string
	Date              *time.Time
	Description       *string
	IsRecurring       *bool
	RecurringInterval *Interval
}

func (u TransactionUpdate) apply(t *Transaction) {
	if u.Type != nil {
		t.Type = *u.Type
	}

	if u.Amount != nil {
		t.Amount = *u.Amount
	}

	if u.AccountID != nil {
		t.AccountID = *u.AccountID
	}

	if u.Category != nil {
		t.Category = *u.Category
	}

	if u.Date != nil {
		t.Date = *u.Date
	}

	if u.Description != nil {
		t.Description = *u.Description
	}

	if u.IsRecurring != nil {
		t.IsRecurring = *u.IsRecurring
	}

	if u.RecurringInterval != nil {
		t.RecurringInterval = new(*u.RecurringInterval)
	}
}

// TransactionFilter narrows ListTransactions. Zero value matches everything.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Type      *TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}

// Match reports whether t passes the filter. Date bounds are inclusive.
func (f TransactionFilter) Match(t *Transaction) bool {
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}

	if f.Type != nil && t.Type != *f.Type {
		return false
	}

	if f.StartDate != nil && t.Date.Before(DateOf(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && t.Date.After(DateOf(*f.EndDate)) {
		return false
	}

	return true
}

// Snapshot is a consistent copy of the whole ledger.
type Snapshot struct {
	Accounts     []*Account
	Transactions []*Transaction
	Budget       decimal.Decimal
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Category vocabulary offered by entry forms. Storage accepts any string.
var (
	IncomeCategories = []string{"Salary", "Freelance", "Investment", "Gift", "Other Income"}

	ExpenseCategories = []string{
		"Food & Dining",
		"Transportation",
		"Shopping",
		"Entertainment",
		"Bills & Utilities",
		"Healthcare",
		"Education",
		"Travel",
		"Other Expense",
	}
)

// Categories returns the vocabulary for the given transaction type.
func Categories(t TransactionType) []string {
	if t == TypeIncome {
		return IncomeCategories
	}

	return ExpenseCategories
}
