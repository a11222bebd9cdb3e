// Package retry provides a bounded fixed-interval polling combinator.
// Platform consistency typically resolves within a few seconds, so there is
// no backoff growth and no parallel probing; one outstanding check at a time.
package retry

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first. Injected so
// tests never block on wall-clock time.
type Sleep func(ctx context.Context, d time.Duration) error

// Option configures Poll.
type Option func(*settings)

type settings struct {
	sleep Sleep
}

// WithSleep replaces the default timer-based sleep.
func WithSleep(sleep Sleep) Option {
	return func(s *settings) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll invokes fn up to attempts times, waiting interval between attempts.
// It stops early when fn reports done or returns an error. A fn that wants a
// failed check to merely consume the attempt returns (false, nil).
// Poll returns whether fn ever reported done.
func Poll(ctx context.Context, attempts int, interval time.Duration, fn func(context.Context) (bool, error), opts ...Option) (bool, error) {
	s := settings{sleep: defaultSleep}
	for _, opt := range opts {
		opt(&s)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		if attempt == attempts {
			break
		}
		if err := s.sleep(ctx, interval); err != nil {
			return false, err
		}
	}
	return false, nil
}
