// Package lifecycle deletes transient notices after a fixed delay. Schedules
// are fire-and-forget: no dedup, no cancellation API, and a failed deletion
// is logged once and never retried or surfaced to the user.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gatekeeper/internal/gate/ports"
	"gatekeeper/internal/platform/metrics"
)

// AfterFunc starts a one-shot timer; injected for testability.
type AfterFunc func(d time.Duration, f func()) *time.Timer

// Scheduler owns the pending deletion timers. Each timer fires at most once;
// Close abandons whatever has not fired yet.
type Scheduler struct {
	msgr    ports.Messenger
	metrics *metrics.Metrics
	logger  *slog.Logger
	after   AfterFunc

	mu     sync.Mutex
	nextID int
	timers map[int]*time.Timer
	closed bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithAfterFunc replaces the timer constructor for testability.
func WithAfterFunc(after AfterFunc) Option {
	return func(s *Scheduler) {
		if after != nil {
			s.after = after
		}
	}
}

// New builds a Scheduler. The metrics handle may be nil in tests.
func New(msgr ports.Messenger, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		msgr:    msgr,
		metrics: m,
		logger:  logger,
		after:   time.AfterFunc,
		timers:  make(map[int]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleDelete arranges for the message to be deleted after delay.
// Scheduling the same message twice produces two independent attempts; the
// second fails harmlessly against an already-deleted message.
func (s *Scheduler) ScheduleDelete(chatID int64, messageID int, delay time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("scheduler closed, dropping deletion",
			"chat_id", chatID,
			"message_id", messageID,
		)
		return
	}
	id := s.nextID
	s.nextID++
	s.timers[id] = s.after(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.deleteNow(chatID, messageID)
	})
	s.mu.Unlock()
}

func (s *Scheduler) deleteNow(chatID int64, messageID int) {
	// The platform client governs its own timeout.
	if err := s.msgr.DeleteMessage(context.Background(), chatID, messageID); err != nil {
		s.logger.Warn("scheduled deletion failed",
			"chat_id", chatID,
			"message_id", messageID,
			"error", err,
		)
		return
	}
	if s.metrics != nil {
		s.metrics.NoticeDeletions.Inc()
	}
	s.logger.Debug("deleted transient notice",
		"chat_id", chatID,
		"message_id", messageID,
	)
}

// Close abandons all pending deletions. Timers already mid-fire complete;
// nothing fires twice.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
