// Package cooldown gates verification attempts with a per-user fixed
// cooldown. State lives in process memory only: it is lost on restart and
// entries never expire, both accepted limitations at target scale.
package cooldown

import (
	"sync"
	"time"

	"gatekeeper/internal/gate/models"
)

// Clock supplies the current time; injected for testability.
type Clock func() time.Time

// Gate tracks the last allowed attempt per user.
type Gate struct {
	mu     sync.Mutex
	last   map[models.UserID]time.Time
	window time.Duration
	clock  Clock
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(g *Gate) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// New builds a Gate with the given cooldown window.
func New(window time.Duration, opts ...Option) *Gate {
	g := &Gate{
		last:   make(map[models.UserID]time.Time),
		window: window,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAcquire reports whether an attempt is allowed now. The check and the
// timestamp update form one critical section so two concurrent attempts by
// the same user can never both pass. The stored timestamp only ever moves
// forward.
func (g *Gate) TryAcquire(userID models.UserID) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	if last, ok := g.last[userID]; ok {
		elapsed := now.Sub(last)
		if elapsed < g.window {
			return false, g.window - elapsed
		}
	}
	g.last[userID] = now
	return true, 0
}
