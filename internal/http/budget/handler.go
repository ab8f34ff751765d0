package budget

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

const monthLayout = "2006-01"

type Handler struct {
	svc *ledger.Service
	now func() time.Time
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Get("/summary", h.summary)
}

type budgetResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type budgetRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type categoryResponse struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

type summaryResponse struct {
	Month         string             `json:"month"`
	TotalExpenses decimal.Decimal    `json:"total_expenses"`
	TotalIncome   decimal.Decimal    `json:"total_income"`
	Net           decimal.Decimal    `json:"net"`
	Budget        decimal.Decimal    `json:"budget"`
	Remaining     decimal.Decimal    `json:"remaining"`
	Progress      decimal.Decimal    `json:"progress"`
	Categories    []categoryResponse `json:"categories"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	amount, err := h.svc.Budget(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, budgetResponse{Amount: amount})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount == nil {
		http.Error(w, "amount is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateBudget(r.Context(), *req.Amount); err != nil {
		slog.Error("failed to update budget", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, budgetResponse{Amount: *req.Amount})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	month := h.now()
	if s := query.Get("month"); s != "" {
		m, err := time.Parse(monthLayout, s)
		if err != nil {
			http.Error(w, "invalid month, want YYYY-MM", http.StatusBadRequest)
			return
		}

		month = m
	}

	var accountID *uuid.UUID
	if s := query.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		accountID = &id
	}

	sum, err := h.svc.MonthlySummary(r.Context(), month, accountID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		Month:         sum.Month.Format(monthLayout),
		TotalExpenses: sum.TotalExpenses,
		TotalIncome:   sum.TotalIncome,
		Net:           sum.Net,
		Budget:        sum.Budget,
		Remaining:     sum.Remaining,
		Progress:      sum.Progress,
		Categories:    make([]categoryResponse, 0, len(sum.Categories)),
	}

	for _, c := range sum.Categories {
		resp.Categories = append(resp.Categories, categoryResponse{
			Category:   c.Category,
			Amount:     c.Amount,
			Percentage: c.Percentage,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
