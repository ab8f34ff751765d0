package view

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

const opTimeout = 5 * time.Second

// FormatAmount renders an amount in the given ISO 4217 currency. Unknown codes
// fall back to two decimals followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()

	return money.New(minor, cur.Code).Display()
}

// FormatSigned prefixes expenses with a minus sign.
func FormatSigned(tx *ledger.Transaction, currency string) string {
	return FormatAmount(tx.Delta(), currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// OpCtx returns a context with a standard timeout for ledger operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
