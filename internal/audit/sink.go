// Package audit is the append-only trail of gate decisions plus the operator
// notification channel. Records are write-once; the log is never truncated
// or rotated by this system.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/gate/ports"
)

// Store persists audit records.
type Store interface {
	Append(ctx context.Context, rec models.AuditRecord) error
}

// Clock supplies record timestamps; injected for testability.
type Clock func() time.Time

// Sink appends one record per decision and forwards success and error
// outcomes to the operator chat. Warnings stay log-only.
type Sink struct {
	store    Store
	notifier ports.Notifier
	logger   *slog.Logger
	clock    Clock
}

// Option configures a Sink.
type Option func(*Sink)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Sink) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New validates dependencies and builds the sink.
func New(store Store, notifier ports.Notifier, logger *slog.Logger, opts ...Option) (*Sink, error) {
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("operator notifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sink{store: store, notifier: notifier, logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Record appends one line to the durable log. A store failure propagates to
// the caller; a notification failure is logged and swallowed, since the
// durable record already exists.
func (s *Sink) Record(ctx context.Context, outcome models.Outcome, user models.User, detail string) error {
	rec := models.AuditRecord{
		Timestamp: s.clock(),
		Outcome:   outcome,
		User:      user,
		Detail:    detail,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	if outcome.Notifies() {
		text := fmt.Sprintf("%s: %s", outcome.Label(), detail)
		if err := s.notifier.Notify(ctx, text); err != nil {
			s.logger.WarnContext(ctx, "operator notification failed",
				"outcome", outcome,
				"user_id", user.ID,
				"error", err,
			)
		}
	}
	return nil
}
