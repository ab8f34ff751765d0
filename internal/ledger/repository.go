package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=ledger

// Reader exposes the committed ledger. Lookups of unknown ids return ErrNotFound.
type Reader interface {
	ListAccounts(ctx context.Context) ([]*Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Budget(ctx context.Context) (decimal.Decimal, error)
}

// Tx is a unit of work over accounts, transactions and budget. Nothing it writes is
// visible to readers until Commit. Rollback after Commit is a no-op.
type Tx interface {
	Reader

	InsertAccount(ctx context.Context, account *Account) error
	UpdateAccount(ctx context.Context, account *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	// ClearDefaults unsets IsDefault on every account except the given one.
	ClearDefaults(ctx context.Context, except uuid.UUID) error
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	InsertTransaction(ctx context.Context, tx *Transaction) error
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	DeleteTransactionsByAccount(ctx context.Context, accountID uuid.UUID) (int, error)

	SetBudget(ctx context.Context, amount decimal.Decimal) error

	Commit() error
	Rollback() error
}

type Repository interface {
	Reader

	Snapshot(ctx context.Context) (*Snapshot, error)
	Begin(ctx context.Context) (Tx, error)
}
