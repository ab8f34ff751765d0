package events

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Multi delivers each event to every notifier, even when an earlier one fails.
type Multi []ledger.Notifier

func (m Multi) Notify(ctx context.Context, e ledger.Event) error {
	var errs []error

	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
