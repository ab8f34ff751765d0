package events

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Log writes every event to a slog logger.
type Log struct {
	logger *slog.Logger
}

// NewLog uses slog.Default when logger is nil.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{logger: logger}
}

func (l *Log) Notify(ctx context.Context, e ledger.Event) error {
	l.logger.InfoContext(ctx, "ledger event", "kind", e.Kind, "id", e.ID, "at", e.At)
	return nil
}
