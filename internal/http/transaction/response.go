package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type transactionResponse struct {
	ID                uuid.UUID              `json:"id"`
	Type              ledger.TransactionType `json:"type"`
	Amount            decimal.Decimal        `json:"amount"`
	AccountID         uuid.UUID              `json:"account_id"`
	Category          string                 `json:"category"`
	Date              string                 `json:"date"`
	Description       string                 `json:"description"`
	IsRecurring       bool                   `json:"is_recurring"`
	RecurringInterval *ledger.Interval       `json:"recurring_interval,omitempty"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:                tx.ID,
		Type:              tx.Type,
		Amount:            tx.Amount,
		AccountID:         tx.AccountID,
		Category:          tx.Category,
		Date:              tx.Date.Format(time.DateOnly),
		Description:       tx.Description,
		IsRecurring:       tx.IsRecurring,
		RecurringInterval: tx.RecurringInterval,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type categoriesResponse struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}
