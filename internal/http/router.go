package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/wealth/internal/http/account"
	"github.com/MrJamesThe3rd/wealth/internal/http/budget"
	"github.com/MrJamesThe3rd/wealth/internal/http/receipt"
	"github.com/MrJamesThe3rd/wealth/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	budgetV1 *budget.Handler,
	receiptsV1 *receipt.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/budget", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			budgetV1.Routes(r)
		})

		r.Route("/receipts", receiptsV1.Routes)

		r.Get("/categories", transactionsV1.Categories)
	})

	return router
}
