package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/wealth/internal/app"
	"github.com/MrJamesThe3rd/wealth/internal/config"
	wealthHttp "github.com/MrJamesThe3rd/wealth/internal/http"
	accountHandler "github.com/MrJamesThe3rd/wealth/internal/http/account"
	budgetHandler "github.com/MrJamesThe3rd/wealth/internal/http/budget"
	receiptHandler "github.com/MrJamesThe3rd/wealth/internal/http/receipt"
	txHandler "github.com/MrJamesThe3rd/wealth/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		accountH     = accountHandler.NewHandler(a.Ledger)
		transactionH = txHandler.NewHandler(a.Ledger)
		budgetH      = budgetHandler.NewHandler(a.Ledger)
		receiptH     = receiptHandler.NewHandler(a.Ledger)
	)

	router := wealthHttp.New(cfg.Server.AllowedOrigins, accountH, transactionH, budgetH, receiptH)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "seed_demo", cfg.Ledger.SeedDemo)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
