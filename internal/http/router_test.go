package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wealthHttp "github.com/MrJamesThe3rd/wealth/internal/http"
	"github.com/MrJamesThe3rd/wealth/internal/http/account"
	"github.com/MrJamesThe3rd/wealth/internal/http/budget"
	"github.com/MrJamesThe3rd/wealth/internal/http/receipt"
	"github.com/MrJamesThe3rd/wealth/internal/http/transaction"
	"github.com/MrJamesThe3rd/wealth/internal/ledger"
	"github.com/MrJamesThe3rd/wealth/internal/ledger/store"
	receiptScan "github.com/MrJamesThe3rd/wealth/internal/receipt"
)

type accountBody struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"is_default"`
}

type transactionBody struct {
	ID                uuid.UUID       `json:"id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	AccountID         uuid.UUID       `json:"account_id"`
	Category          string          `json:"category"`
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
}

type server struct {
	t       *testing.T
	handler http.Handler
}

func newServer(t *testing.T, opts ...ledger.Option) *server {
	t.Helper()

	svc := ledger.NewService(store.New(), opts...)

	handler := wealthHttp.New(
		[]string{"*"},
		account.NewHandler(svc),
		transaction.NewHandler(svc),
		budget.NewHandler(svc),
		receipt.NewHandler(svc),
	)

	return &server{t: t, handler: handler}
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader

	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)

		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())

	return v
}

func (s *server) createAccount(name, balance string, isDefault bool) accountBody {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name":       name,
		"type":       "current",
		"balance":    balance,
		"is_default": isDefault,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[accountBody](s.t, rec)
}

func (s *server) createTransaction(accountID uuid.UUID, typ, amount string) transactionBody {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"type":        typ,
		"amount":      amount,
		"account_id":  accountID,
		"category":    "Other Expense",
		"date":        "2024-01-15",
		"description": "test",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[transactionBody](s.t, rec)
}

func (s *server) balance(id uuid.UUID) decimal.Decimal {
	s.t.Helper()

	rec := s.do(http.MethodGet, "/api/v1/accounts/"+id.String(), nil)
	require.Equal(s.t, http.StatusOK, rec.Code)

	return decode[accountBody](s.t, rec).Balance
}

func TestAccounts(t *testing.T) {
	s := newServer(t)

	first := s.createAccount("Main Checking", "5420.50", true)
	second := s.createAccount("Savings", "100", true)

	assert.True(t, decimal.RequireFromString("5420.50").Equal(first.Balance))

	rec := s.do(http.MethodGet, "/api/v1/accounts/default", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, second.ID, decode[accountBody](t, rec).ID)

	rec = s.do(http.MethodPatch, "/api/v1/accounts/"+first.ID.String(), map[string]any{"is_default": true, "name": "Checking"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[accountBody](t, rec)
	assert.Equal(t, "Checking", updated.Name)
	assert.True(t, updated.IsDefault)

	rec = s.do(http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]accountBody](t, rec)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	rec = s.do(http.MethodDelete, "/api/v1/accounts/"+second.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/accounts/"+second.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccounts_StatusCodes(t *testing.T) {
	s := newServer(t)
	unknown := uuid.New().String()

	type testCase struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}

	tests := []testCase{
		{name: "InvalidID", method: http.MethodGet, path: "/api/v1/accounts/nope", want: http.StatusBadRequest},
		{name: "UnknownGet", method: http.MethodGet, path: "/api/v1/accounts/" + unknown, want: http.StatusNotFound},
		{name: "UnknownPatch", method: http.MethodPatch, path: "/api/v1/accounts/" + unknown, body: map[string]any{"name": "x"}, want: http.StatusNotFound},
		{name: "UnknownDelete", method: http.MethodDelete, path: "/api/v1/accounts/" + unknown, want: http.StatusNoContent},
		{name: "NoDefault", method: http.MethodGet, path: "/api/v1/accounts/default", want: http.StatusNotFound},
		{name: "MalformedBody", method: http.MethodPost, path: "/api/v1/accounts", body: "{", want: http.StatusBadRequest},
		{name: "MissingName", method: http.MethodPost, path: "/api/v1/accounts", body: map[string]any{"type": "savings"}, want: http.StatusBadRequest},
		{name: "BadType", method: http.MethodPost, path: "/api/v1/accounts", body: map[string]any{"name": "x", "type": "crypto"}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTransactions_BalanceFlow(t *testing.T) {
	s := newServer(t)
	a := s.createAccount("A", "100", true)

	income := s.createTransaction(a.ID, "income", "50")
	assert.Equal(t, "2024-01-15", income.Date)
	assert.True(t, decimal.NewFromInt(150).Equal(s.balance(a.ID)))

	s.createTransaction(a.ID, "expense", "30")
	assert.True(t, decimal.NewFromInt(120).Equal(s.balance(a.ID)))

	rec := s.do(http.MethodDelete, "/api/v1/transactions/"+income.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, decimal.NewFromInt(70).Equal(s.balance(a.ID)))
}

func TestTransactions_ListFilters(t *testing.T) {
	s := newServer(t)
	a := s.createAccount("A", "0", false)
	b := s.createAccount("B", "0", false)

	s.createTransaction(a.ID, "income", "1")
	s.createTransaction(a.ID, "expense", "2")
	s.createTransaction(b.ID, "expense", "3")

	type testCase struct {
		name  string
		query string
		want  int
	}

	tests := []testCase{
		{name: "All", query: "", want: 3},
		{name: "Account", query: "?account_id=" + a.ID.String(), want: 2},
		{name: "Type", query: "?type=expense", want: 2},
		{name: "AccountAndType", query: "?account_id=" + a.ID.String() + "&type=expense", want: 1},
		{name: "DateInRange", query: "?start_date=2024-01-15&end_date=2024-01-15", want: 3},
		{name: "DateOutOfRange", query: "?start_date=2024-01-16", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/api/v1/transactions"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]transactionBody](t, rec), tt.want)
		})
	}

	rec := s.do(http.MethodGet, "/api/v1/transactions?account_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactions_Update(t *testing.T) {
	s := newServer(t)
	a := s.createAccount("A", "100", false)
	tx := s.createTransaction(a.ID, "expense", "10")

	rec := s.do(http.MethodPatch, "/api/v1/transactions/"+tx.ID.String(), map[string]any{
		"description":        "Dinner",
		"is_recurring":       true,
		"recurring_interval": "weekly",
		"date":               "2024-02-01T21:30:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[transactionBody](t, rec)
	assert.Equal(t, "Dinner", got.Description)
	assert.Equal(t, "2024-02-01", got.Date)
	assert.True(t, got.IsRecurring)
	require.NotNil(t, got.RecurringInterval)
	assert.Equal(t, "weekly", *got.RecurringInterval)
	assert.Equal(t, "Other Expense", got.Category)

	rec = s.do(http.MethodPatch, "/api/v1/transactions/"+uuid.NewString(), map[string]any{"description": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, "/api/v1/transactions/"+tx.ID.String(), map[string]any{"amount": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactions_CreateValidation(t *testing.T) {
	s := newServer(t)
	accountID := uuid.New()

	type testCase struct {
		name string
		body any
		want int
	}

	tests := []testCase{
		{name: "BadType", body: map[string]any{"type": "transfer", "amount": "1", "account_id": accountID}, want: http.StatusBadRequest},
		{name: "ZeroAmount", body: map[string]any{"type": "income", "amount": "0", "account_id": accountID}, want: http.StatusBadRequest},
		{name: "BadDate", body: map[string]any{"type": "income", "amount": "1", "account_id": accountID, "date": "15/01/2024"}, want: http.StatusBadRequest},
		{name: "BadInterval", body: map[string]any{"type": "income", "amount": "1", "account_id": accountID, "is_recurring": true, "recurring_interval": "hourly"}, want: http.StatusBadRequest},
		{name: "OrphanAllowed", body: map[string]any{"type": "income", "amount": "1", "account_id": accountID}, want: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/transactions", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTransactions_RejectOrphans(t *testing.T) {
	s := newServer(t, ledger.WithRejectOrphans(true))

	rec := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{"type": "income", "amount": "1", "account_id": uuid.New()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTransactions_DeleteMany(t *testing.T) {
	s := newServer(t)
	a := s.createAccount("A", "100", false)
	keep := s.createTransaction(a.ID, "expense", "5")
	drop := s.createTransaction(a.ID, "expense", "20")

	rec := s.do(http.MethodPost, "/api/v1/transactions/delete", map[string]any{"ids": []uuid.UUID{uuid.New(), drop.ID}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, decimal.NewFromInt(95).Equal(s.balance(a.ID)))

	rec = s.do(http.MethodGet, "/api/v1/transactions", nil)
	list := decode[[]transactionBody](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestBudget(t *testing.T) {
	s := newServer(t)
	a := s.createAccount("A", "0", false)

	rec := s.do(http.MethodPut, "/api/v1/budget", map[string]any{"amount": "2500"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/budget", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decimal.NewFromInt(2500).Equal(decode[struct {
		Amount decimal.Decimal `json:"amount"`
	}](t, rec).Amount))

	s.createTransaction(a.ID, "expense", "250")
	s.createTransaction(a.ID, "income", "3000")

	rec = s.do(http.MethodGet, "/api/v1/budget/summary?month=2024-01&account_id="+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum struct {
		Month         string          `json:"month"`
		TotalExpenses decimal.Decimal `json:"total_expenses"`
		Remaining     decimal.Decimal `json:"remaining"`
		Progress      decimal.Decimal `json:"progress"`
		Categories    []struct {
			Category   string          `json:"category"`
			Percentage decimal.Decimal `json:"percentage"`
		} `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sum))

	assert.Equal(t, "2024-01", sum.Month)
	assert.True(t, decimal.NewFromInt(250).Equal(sum.TotalExpenses))
	assert.True(t, decimal.NewFromInt(2250).Equal(sum.Remaining))
	assert.True(t, decimal.NewFromInt(10).Equal(sum.Progress))
	require.Len(t, sum.Categories, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(sum.Categories[0].Percentage))

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/budget/summary?month=January", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/budget", map[string]any{}).Code)
}

func TestCategories(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Income  []string `json:"income"`
		Expense []string `json:"expense"`
	}](t, rec)
	assert.Contains(t, got.Income, "Salary")
	assert.Contains(t, got.Expense, "Food & Dining")
}

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, name := range names {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)

		_, err = part.Write([]byte("TOTAL 1.00"))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func scan(t *testing.T, s *server, names ...string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, names...)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func TestReceipts_Scan(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	simulated := receiptScan.NewSimulated(
		receiptScan.WithDelay(0),
		receiptScan.WithClock(func() time.Time { return now }),
		receiptScan.WithIntN(func(int) int { return 32 }),
	)
	s := newServer(t, ledger.WithRecognizer(simulated))

	rec := scan(t, s, "coffee.jpg", "taxi.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[[]struct {
		Type        string          `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        string          `json:"date"`
	}](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Receipt scan - coffee", got[0].Description)
	assert.Equal(t, "Receipt scan - taxi", got[1].Description)
	assert.Equal(t, "expense", got[0].Type)
	assert.True(t, decimal.NewFromInt(42).Equal(got[0].Amount))
	assert.Equal(t, "2024-03-10", got[0].Date)

	rec = s.do(http.MethodGet, "/api/v1/transactions", nil)
	assert.Empty(t, decode[[]transactionBody](t, rec), "scanning records nothing")
}

type failingRecognizer struct{ err error }

func (f failingRecognizer) Recognize(context.Context, ledger.ReceiptFile) (*ledger.Suggestion, error) {
	return nil, f.err
}

func TestReceipts_ScanErrors(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "Malformed", err: ledger.ErrMalformedReceipt, want: http.StatusUnprocessableEntity},
		{name: "Upstream", err: errors.New("timeout talking to model"), want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, ledger.WithRecognizer(failingRecognizer{err: tt.err}))

			rec := scan(t, s, "r.jpg")
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	s := newServer(t)
	rec := scan(t, s)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no file parts")
}
