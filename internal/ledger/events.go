package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind names a committed ledger change.
type EventKind string

const (
	EventAccountCreated     EventKind = "account.created"
	EventAccountUpdated     EventKind = "account.updated"
	EventAccountDeleted     EventKind = "account.deleted"
	EventTransactionCreated EventKind = "transaction.created"
	EventTransactionUpdated EventKind = "transaction.updated"
	EventTransactionDeleted EventKind = "transaction.deleted"
	EventBudgetUpdated      EventKind = "budget.updated"
)

// Event is emitted after a mutation has been committed. ID is uuid.Nil for budget events.
type Event struct {
	Kind EventKind
	ID   uuid.UUID
	At   time.Time
}

// Notifier receives ledger events. Failures are logged by the service and never
// affect the mutation that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
