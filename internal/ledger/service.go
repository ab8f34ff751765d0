package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentScans bounds ScanReceipts fan-out.
const maxConcurrentScans = 4

// Service owns every mutation of the ledger. Each mutating call runs in a single
// repository transaction, so a transaction and the balance change it causes are
// committed together or not at all.
type Service struct {
	repo       Repository
	recognizer Recognizer
	notifier   Notifier
	now        func() time.Time

	rejectOrphans    bool
	reconcileUpdates bool
}

type Option func(*Service)

// WithRecognizer sets the capability used by ScanReceipt.
func WithRecognizer(r Recognizer) Option {
	return func(s *Service) { s.recognizer = r }
}

// WithNotifier sets the side channel that receives committed changes.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRejectOrphans makes AddTransaction fail with ErrAccountNotFound instead of
// recording a transaction whose account does not exist.
func WithRejectOrphans(reject bool) Option {
	return func(s *Service) { s.rejectOrphans = reject }
}

// WithReconcileUpdates makes UpdateTransaction move the balance effect along with
// amount, type and account changes. Without it updates never touch balances.
func WithReconcileUpdates(reconcile bool) Option {
	return func(s *Service) { s.reconcileUpdates = reconcile }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// DefaultAccount returns the account flagged as default, or ErrNotFound.
func (s *Service) DefaultAccount(ctx context.Context) (*Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if a.IsDefault {
			return a, nil
		}
	}

	return nil, ErrNotFound
}

func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Budget(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.Budget(ctx)
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	return s.repo.Snapshot(ctx)
}

// AddAccount creates an account. A new default account takes the flag away from
// every other account in the same unit of work.
func (s *Service) AddAccount(ctx context.Context, params NewAccount) (*Account, error) {
	account := &Account{
		ID:        uuid.New(),
		Name:      params.Name,
		Type:      params.Type,
		Balance:   params.Balance,
		IsDefault: params.IsDefault,
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add account: %w", err)
	}
	defer tx.Rollback()

	if account.IsDefault {
		if err := tx.ClearDefaults(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("clearing default accounts: %w", err)
		}
	}

	if err := tx.InsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add account: %w", err)
	}

	s.notify(ctx, EventAccountCreated, account.ID)

	return account, nil
}

// UpdateAccount merges the non-nil fields of upd into the account. Unknown ids are ignored.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, upd AccountUpdate) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update account: %w", err)
	}
	defer tx.Rollback()

	account, err := tx.GetAccount(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("getting account: %w", err)
	}

	upd.apply(account)

	if upd.IsDefault != nil && account.IsDefault {
		if err := tx.ClearDefaults(ctx, id); err != nil {
			return fmt.Errorf("clearing default accounts: %w", err)
		}
	}

	if err := tx.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update account: %w", err)
	}

	s.notify(ctx, EventAccountUpdated, id)

	return nil
}

// DeleteAccount removes the account and every transaction that references it.
// Balances are not reversed since the account goes away with them.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback()

	removed := true

	err = tx.DeleteAccount(ctx, id)
	if errors.Is(err, ErrNotFound) {
		removed = false
	} else if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	n, err := tx.DeleteTransactionsByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting account transactions: %w", err)
	}

	if !removed && n == 0 {
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete account: %w", err)
	}

	slog.Debug("account deleted", "account_id", id, "transactions_removed", n)
	s.notify(ctx, EventAccountDeleted, id)

	return nil
}

// AddTransaction records a transaction and applies its delta to the referenced
// account. A transaction whose account does not exist is still recorded, without a
// balance effect, unless the service rejects orphans.
func (s *Service) AddTransaction(ctx context.Context, params NewTransaction) (*Transaction, error) {
	t := &Transaction{
		ID:                uuid.New(),
		Type:              params.Type,
		Amount:            params.Amount,
		AccountID:         params.AccountID,
		Category:          params.Category,
		Date:              params.Date,
		Description:       params.Description,
		IsRecurring:       params.IsRecurring,
		RecurringInterval: params.RecurringInterval,
	}
	t = t.Clone()
	t.normalize()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.InsertTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	err = tx.AdjustBalance(ctx, t.AccountID, t.Delta())

	switch {
	case errors.Is(err, ErrNotFound) && s.rejectOrphans:
		return nil, fmt.Errorf("adding transaction to %s: %w", t.AccountID, ErrAccountNotFound)
	case errors.Is(err, ErrNotFound):
		slog.Warn("transaction references unknown account", "transaction_id", t.ID, "account_id", t.AccountID)
	case err != nil:
		return nil, fmt.Errorf("adjusting balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add transaction: %w", err)
	}

	s.notify(ctx, EventTransactionCreated, t.ID)

	return t, nil
}

// UpdateTransaction merges the non-nil fields of upd into the transaction. Unless
// the service reconciles updates, account balances are left as they are even when
// amount, type or account change.
func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, upd TransactionUpdate) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := tx.GetTransaction(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("getting transaction: %w", err)
	}

	updated := old.Clone()
	upd.apply(updated)
	updated.normalize()

	if s.reconcileUpdates {
		if err := reconcile(ctx, tx, old, updated); err != nil {
			return err
		}
	}

	if err := tx.UpdateTransaction(ctx, updated); err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update transaction: %w", err)
	}

	s.notify(ctx, EventTransactionUpdated, id)

	return nil
}

// reconcile reverses the old balance effect and applies the new one. Missing
// accounts are skipped, as on add and delete.
func reconcile(ctx context.Context, tx Tx, old, updated *Transaction) error {
	if err := tx.AdjustBalance(ctx, old.AccountID, old.Delta().Neg()); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("reversing balance: %w", err)
	}

	if err := tx.AdjustBalance(ctx, updated.AccountID, updated.Delta()); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("applying balance: %w", err)
	}

	return nil
}

// DeleteTransaction removes the transaction and reverses its original delta on the
// account it references. Unknown ids are ignored.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := tx.GetTransaction(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("getting transaction: %w", err)
	}

	if err := tx.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if err := tx.AdjustBalance(ctx, t.AccountID, t.Delta().Neg()); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("reversing balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}

	s.notify(ctx, EventTransactionDeleted, id)

	return nil
}

// DeleteTransactions deletes each id in order, each in its own unit of work.
func (s *Service) DeleteTransactions(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := s.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("deleting transaction %s: %w", id, err)
		}
	}

	return nil
}

// UpdateBudget replaces the budget. No validation happens here.
func (s *Service) UpdateBudget(ctx context.Context, amount decimal.Decimal) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update budget: %w", err)
	}
	defer tx.Rollback()

	if err := tx.SetBudget(ctx, amount); err != nil {
		return fmt.Errorf("setting budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update budget: %w", err)
	}

	s.notify(ctx, EventBudgetUpdated, uuid.Nil)

	return nil
}

// ScanReceipt asks the recognizer for a suggested transaction. The ledger is not
// touched. Failures wrap ErrRecognitionFailed or ErrMalformedReceipt; a cancelled
// context is returned as is.
func (s *Service) ScanReceipt(ctx context.Context, file ReceiptFile) (*Suggestion, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("scanning receipt %q: no recognizer configured: %w", file.Name, ErrRecognitionFailed)
	}

	suggestion, err := s.recognizer.Recognize(ctx, file)
	if err == nil {
		return suggestion, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if errors.Is(err, ErrMalformedReceipt) || errors.Is(err, ErrRecognitionFailed) {
		return nil, fmt.Errorf("scanning receipt %q: %w", file.Name, err)
	}

	return nil, fmt.Errorf("scanning receipt %q: %w: %w", file.Name, ErrRecognitionFailed, err)
}

// ScanReceipts scans several files concurrently. Results keep the input order; the
// first failure cancels the remaining scans.
func (s *Service) ScanReceipts(ctx context.Context, files []ReceiptFile) ([]*Suggestion, error) {
	results := make([]*Suggestion, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScans)

	for i, f := range files {
		g.Go(func() error {
			suggestion, err := s.ScanReceipt(gctx, f)
			if err != nil {
				return err
			}

			results[i] = suggestion

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *Service) notify(ctx context.Context, kind EventKind, id uuid.UUID) {
	if s.notifier == nil {
		return
	}

	event := Event{Kind: kind, ID: id, At: s.now()}
	if err := s.notifier.Notify(ctx, event); err != nil {
		slog.Warn("failed to publish ledger event", "kind", kind, "id", id, "error", err)
	}
}
