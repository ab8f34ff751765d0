package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// ErrTxDone is returned by operations on a transaction that was already committed
// or rolled back.
var ErrTxDone = errors.New("store: transaction already committed or rolled back")

// state holds the collections in insertion order.
type state struct {
	accounts     []ledger.Account
	transactions []*ledger.Transaction
	budget       decimal.Decimal
}

// clone copies both collections. Stored transactions are never mutated in place,
// so sharing the pointers between copies is safe.
func (st *state) clone() *state {
	return &state{
		accounts:     slices.Clone(st.accounts),
		transactions: slices.Clone(st.transactions),
		budget:       st.budget,
	}
}

// Store is an in-memory ledger.Repository. A single writer holds the lock from
// Begin until Commit or Rollback and works on a private copy of the state.
type Store struct {
	mu sync.RWMutex
	st *state
}

type Option func(*state)

// WithSeed preloads the store. Balances are taken as given.
func WithSeed(seed Seed) Option {
	return func(st *state) {
		st.accounts = slices.Clone(seed.Accounts)

		st.transactions = make([]*ledger.Transaction, 0, len(seed.Transactions))
		for i := range seed.Transactions {
			st.transactions = append(st.transactions, seed.Transactions[i].Clone())
		}

		st.budget = seed.Budget
	}
}

func New(opts ...Option) *Store {
	st := &state{}
	for _, opt := range opts {
		opt(st)
	}

	return &Store{st: st}
}

func (s *Store) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.listAccounts(), nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.getAccount(id)
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.listTransactions(filter), nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.getTransaction(id)
}

func (s *Store) Budget(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.budget, nil
}

func (s *Store) Snapshot(ctx context.Context) (*ledger.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &ledger.Snapshot{
		Accounts:     s.st.listAccounts(),
		Transactions: s.st.listTransactions(ledger.TransactionFilter{}),
		Budget:       s.st.budget,
	}, nil
}

// Begin blocks until no other transaction is open.
func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()

	return &storeTx{store: s, work: s.st.clone()}, nil
}

func (st *state) listAccounts() []*ledger.Account {
	out := make([]*ledger.Account, len(st.accounts))
	for i := range st.accounts {
		out[i] = new(st.accounts[i])
	}

	return out
}

func (st *state) accountIndex(id uuid.UUID) int {
	return slices.IndexFunc(st.accounts, func(a ledger.Account) bool { return a.ID == id })
}

func (st *state) getAccount(id uuid.UUID) (*ledger.Account, error) {
	i := st.accountIndex(id)
	if i < 0 {
		return nil, ledger.ErrNotFound
	}

	return new(st.accounts[i]), nil
}

func (st *state) listTransactions(filter ledger.TransactionFilter) []*ledger.Transaction {
	var out []*ledger.Transaction

	for _, t := range st.transactions {
		if filter.Match(t) {
			out = append(out, t.Clone())
		}
	}

	return out
}

func (st *state) transactionIndex(id uuid.UUID) int {
	return slices.IndexFunc(st.transactions, func(t *ledger.Transaction) bool { return t.ID == id })
}

func (st *state) getTransaction(id uuid.UUID) (*ledger.Transaction, error) {
	i := st.transactionIndex(id)
	if i < 0 {
		return nil, ledger.ErrNotFound
	}

	return st.transactions[i].Clone(), nil
}

type storeTx struct {
	store *Store
	work  *state
	done  bool
}

func (tx *storeTx) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	if tx.done {
		return nil, ErrTxDone
	}

	return tx.work.listAccounts(), nil
}

func (tx *storeTx) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	if tx.done {
		return nil, ErrTxDone
	}

	return tx.work.getAccount(id)
}

func (tx *storeTx) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	if tx.done {
		return nil, ErrTxDone
	}

	return tx.work.listTransactions(filter), nil
}

func (tx *storeTx) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	if tx.done {
		return nil, ErrTxDone
	}

	return tx.work.getTransaction(id)
}

func (tx *storeTx) Budget(ctx context.Context) (decimal.Decimal, error) {
	if tx.done {
		return decimal.Zero, ErrTxDone
	}

	return tx.work.budget, nil
}

func (tx *storeTx) InsertAccount(ctx context.Context, account *ledger.Account) error {
	if tx.done {
		return ErrTxDone
	}

	tx.work.accounts = append(tx.work.accounts, *account)

	return nil
}

func (tx *storeTx) UpdateAccount(ctx context.Context, account *ledger.Account) error {
	if tx.done {
		return ErrTxDone
	}

	i := tx.work.accountIndex(account.ID)
	if i < 0 {
		return ledger.ErrNotFound
	}

	tx.work.accounts[i] = *account

	return nil
}

func (tx *storeTx) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if tx.done {
		return ErrTxDone
	}

	i := tx.work.accountIndex(id)
	if i < 0 {
		return ledger.ErrNotFound
	}

	tx.work.accounts = slices.Delete(tx.work.accounts, i, i+1)

	return nil
}

func (tx *storeTx) ClearDefaults(ctx context.Context, except uuid.UUID) error {
	if tx.done {
		return ErrTxDone
	}

	for i := range tx.work.accounts {
		if tx.work.accounts[i].ID != except {
			tx.work.accounts[i].IsDefault = false
		}
	}

	return nil
}

func (tx *storeTx) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if tx.done {
		return ErrTxDone
	}

	i := tx.work.accountIndex(id)
	if i < 0 {
		return ledger.ErrNotFound
	}

	tx.work.accounts[i].Balance = tx.work.accounts[i].Balance.Add(delta)

	return nil
}

func (tx *storeTx) InsertTransaction(ctx context.Context, t *ledger.Transaction) error {
	if tx.done {
		return ErrTxDone
	}

	tx.work.transactions = append(tx.work.transactions, t.Clone())

	return nil
}

func (tx *storeTx) UpdateTransaction(ctx context.Context, t *ledger.Transaction) error {
	if tx.done {
		return ErrTxDone
	}

	i := tx.work.transactionIndex(t.ID)
	if i < 0 {
		return ledger.ErrNotFound
	}

	tx.work.transactions[i] = t.Clone()

	return nil
}

func (tx *storeTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if tx.done {
		return ErrTxDone
	}

	i := tx.work.transactionIndex(id)
	if i < 0 {
		return ledger.ErrNotFound
	}

	tx.work.transactions = slices.Delete(tx.work.transactions, i, i+1)

	return nil
}

func (tx *storeTx) DeleteTransactionsByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	if tx.done {
		return 0, ErrTxDone
	}

	before := len(tx.work.transactions)
	tx.work.transactions = slices.DeleteFunc(tx.work.transactions, func(t *ledger.Transaction) bool {
		return t.AccountID == accountID
	})

	return before - len(tx.work.transactions), nil
}

func (tx *storeTx) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	if tx.done {
		return ErrTxDone
	}

	tx.work.budget = amount

	return nil
}

// Commit publishes the working copy and releases the writer lock.
func (tx *storeTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}

	tx.store.st = tx.work
	tx.done = true
	tx.store.mu.Unlock()

	return nil
}

// Rollback discards the working copy. It is a no-op once the transaction is done.
func (tx *storeTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.work = nil
	tx.done = true
	tx.store.mu.Unlock()

	return nil
}
