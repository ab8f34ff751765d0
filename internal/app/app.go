package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/wealth/internal/config"
	"github.com/MrJamesThe3rd/wealth/internal/events"
	"github.com/MrJamesThe3rd/wealth/internal/ledger"
	"github.com/MrJamesThe3rd/wealth/internal/ledger/store"
	"github.com/MrJamesThe3rd/wealth/internal/receipt"
)

// App holds the ledger service built from configuration and the resources it owns.
type App struct {
	Ledger *ledger.Service

	closers []io.Closer
}

// New wires the in-memory store, receipt recognizers and event notifiers.
func New(cfg *config.Config) (*App, error) {
	var storeOpts []store.Option
	if cfg.Ledger.SeedDemo {
		storeOpts = append(storeOpts, store.WithSeed(store.Demo()))
	}

	a := &App{}

	notifier, err := a.notifier(cfg)
	if err != nil {
		return nil, err
	}

	a.Ledger = ledger.NewService(
		store.New(storeOpts...),
		ledger.WithRecognizer(recognizer(cfg)),
		ledger.WithNotifier(notifier),
		ledger.WithRejectOrphans(cfg.Ledger.RejectOrphans),
		ledger.WithReconcileUpdates(cfg.Ledger.ReconcileUpdates),
	)

	return a, nil
}

func recognizer(cfg *config.Config) ledger.Recognizer {
	router := &receipt.Router{
		Text:     receipt.NewText(nil),
		Fallback: receipt.NewSimulated(receipt.WithDelay(cfg.Receipt.ScanDelay)),
	}

	if cfg.Receipt.AnthropicAPIKey != "" {
		router.Image = receipt.NewAnthropic(cfg.Receipt.AnthropicAPIKey, cfg.Receipt.AnthropicModel)
	} else {
		slog.Info("no Anthropic API key, image receipts use the simulated scanner")
	}

	return router
}

func (a *App) notifier(cfg *config.Config) (ledger.Notifier, error) {
	notifiers := events.Multi{events.NewLog(nil)}

	if cfg.AMQP.URL != "" {
		publisher, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, fmt.Errorf("connecting event publisher: %w", err)
		}

		a.closers = append(a.closers, publisher)
		notifiers = append(notifiers, publisher)
	}

	return notifiers, nil
}

func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
