package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type accountResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Type      ledger.AccountType `json:"type"`
	Balance   decimal.Decimal    `json:"balance"`
	IsDefault bool               `json:"is_default"`
}

func toResponse(a *ledger.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		IsDefault: a.IsDefault,
	}
}

func toResponseList(accounts []*ledger.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	return resp
}
