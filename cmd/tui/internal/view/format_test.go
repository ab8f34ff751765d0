package view_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/wealth/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

func TestFormatAmount(t *testing.T) {
	type testCase struct {
		name     string
		amount   string
		currency string
		want     string
	}

	tests := []testCase{
		{name: "Thousands", amount: "5420.5", currency: "USD", want: "$5,420.50"},
		{name: "Rounded", amount: "0.005", currency: "USD", want: "$0.01"},
		{name: "Negative", amount: "-80", currency: "USD", want: "-$80.00"},
		{name: "UnknownCurrency", amount: "12.3", currency: "XYZ", want: "12.30 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, view.FormatAmount(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	tx := &ledger.Transaction{Type: ledger.TypeExpense, Amount: decimal.NewFromInt(250)}
	assert.Equal(t, "-$250.00", view.FormatSigned(tx, "USD"))

	tx.Type = ledger.TypeIncome
	assert.Equal(t, "$250.00", view.FormatSigned(tx, "USD"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-01-15", view.FormatDate(time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)))
}
