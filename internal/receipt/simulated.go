package receipt

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

const (
	// DefaultScanDelay is how long the simulated scanner pretends to work.
	DefaultScanDelay = 2 * time.Second

	simulatedCategory = "Food & Dining"
	minAmount         = 10
	amountSpread      = 100
)

// Simulated produces a plausible expense for any file without looking at its
// content. It stands in for a real recognizer in demos and tests.
type Simulated struct {
	delay time.Duration
	now   func() time.Time
	intn  func(n int) int
}

type SimulatedOption func(*Simulated)

func WithDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) { s.delay = d }
}

func WithClock(now func() time.Time) SimulatedOption {
	return func(s *Simulated) { s.now = now }
}

// WithIntN replaces the random source. intn must return a value in [0, n).
func WithIntN(intn func(n int) int) SimulatedOption {
	return func(s *Simulated) { s.intn = intn }
}

func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		delay: DefaultScanDelay,
		now:   time.Now,
		intn:  rand.IntN,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Recognize waits for the configured delay and returns an expense of 10 to 109
// whole units dated today.
func (s *Simulated) Recognize(ctx context.Context, file ledger.ReceiptFile) (*ledger.Suggestion, error) {
	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}

	return &ledger.Suggestion{
		Type:        ledger.TypeExpense,
		Amount:      decimal.NewFromInt(int64(s.intn(amountSpread) + minAmount)),
		Category:    simulatedCategory,
		Description: scanDescription(file.Name),
		Date:        ledger.DateOf(s.now()),
	}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// stem is the file name up to its first dot.
func stem(name string) string {
	before, _, _ := strings.Cut(name, ".")
	return before
}

func scanDescription(name string) string {
	return "Receipt scan - " + stem(name)
}
