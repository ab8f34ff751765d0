package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptFile is an uploaded receipt.
type ReceiptFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Suggestion is the partial transaction produced by a receipt scan. It is advisory:
// nothing is recorded until the caller passes it to AddTransaction.
type Suggestion struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// ToNewTransaction completes the suggestion with the account it should be booked against.
func (s *Suggestion) ToNewTransaction(accountID uuid.UUID) NewTransaction {
	return NewTransaction{
		Type:        s.Type,
		Amount:      s.Amount,
		AccountID:   accountID,
		Category:    s.Category,
		Date:        s.Date,
		Description: s.Description,
	}
}

// Recognizer turns a receipt file into a suggested transaction.
type Recognizer interface {
	Recognize(ctx context.Context, file ReceiptFile) (*Suggestion, error)
}
