package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/delete", h.deleteMany)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Type              ledger.TransactionType `json:"type"`
	Amount            decimal.Decimal        `json:"amount"`
	AccountID         uuid.UUID              `json:"account_id"`
	Category          string                 `json:"category"`
	Date              string                 `json:"date"`
	Description       string                 `json:"description"`
	IsRecurring       bool                   `json:"is_recurring"`
	RecurringInterval *ledger.Interval       `json:"recurring_interval,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate(req.Type, req.Amount, req.RecurringInterval); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date := time.Now()
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		date = d
	}

	tx, err := h.svc.AddTransaction(r.Context(), ledger.NewTransaction{
		Type:              req.Type,
		Amount:            req.Amount,
		AccountID:         req.AccountID,
		Category:          req.Category,
		Date:              date,
		Description:       req.Description,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			http.Error(w, "account not found", http.StatusUnprocessableEntity)
			return
		}

		slog.Error("failed to add transaction", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.TransactionFilter{}
	query := r.URL.Query()

	if s := query.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		filter.AccountID = &id
	}

	if s := query.Get("type"); s != "" {
		filter.Type = new(ledger.TransactionType(s))
	}

	if s := query.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := query.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deleteManyRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var req deleteManyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransactions(r.Context(), req.IDs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Type              *ledger.TransactionType `json:"type,omitempty"`
	Amount            *decimal.Decimal        `json:"amount,omitempty"`
	AccountID         *uuid.UUID              `json:"account_id,omitempty"`
	Category          *string                 `json:"category,omitempty"`
	Date              *string                 `json:"date,omitempty"`
	Description       *string                 `json:"description,omitempty"`
	IsRecurring       *bool                   `json:"is_recurring,omitempty"`
	RecurringInterval *ledger.Interval        `json:"recurring_interval,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Type != nil && *req.Type != ledger.TypeIncome && *req.Type != ledger.TypeExpense {
		http.Error(w, "invalid transaction type", http.StatusBadRequest)
		return
	}

	if req.Amount != nil && !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	if req.RecurringInterval != nil && !req.RecurringInterval.Valid() {
		http.Error(w, "invalid recurring interval", http.StatusBadRequest)
		return
	}

	upd := ledger.TransactionUpdate{
		Type:              req.Type,
		Amount:            req.Amount,
		AccountID:         req.AccountID,
		Category:          req.Category,
		Description:       req.Description,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}

	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		upd.Date = &d
	}

	if _, err := h.svc.GetTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.svc.UpdateTransaction(r.Context(), id, upd); err != nil {
		slog.Error("failed to update transaction", "error", err, "transaction_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tx, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

// Categories lists the category vocabulary for entry forms.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{
		Income:  ledger.IncomeCategories,
		Expense: ledger.ExpenseCategories,
	})
}

func validate(typ ledger.TransactionType, amount decimal.Decimal, interval *ledger.Interval) error {
	if typ != ledger.TypeIncome && typ != ledger.TypeExpense {
		return fmt.Errorf("invalid transaction type %q", typ)
	}

	if !amount.IsPositive() {
		return errors.New("amount must be positive")
	}

	if interval != nil && !interval.Valid() {
		return fmt.Errorf("invalid recurring interval %q", *interval)
	}

	return nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
