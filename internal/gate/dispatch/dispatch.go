// Package dispatch routes translated platform events to the matching gate
// component.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"gatekeeper/internal/gate/models"
)

// Verifier is the verification flow surface the dispatcher needs.
type Verifier interface {
	HandleJoin(ctx context.Context, ev models.Event) error
	HandleVerify(ctx context.Context, ev models.Event) error
	HandleStats(ctx context.Context, ev models.Event) error
}

// Moderator filters entry-group chatter.
type Moderator interface {
	HandleText(ctx context.Context, ev models.Event) error
}

// Dispatcher fans inbound events out to their handlers.
type Dispatcher struct {
	verifier  Verifier
	moderator Moderator
	logger    *slog.Logger
}

// New validates dependencies and builds the dispatcher.
func New(verifier Verifier, moderator Moderator, logger *slog.Logger) (*Dispatcher, error) {
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if moderator == nil {
		return nil, fmt.Errorf("moderator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{verifier: verifier, moderator: moderator, logger: logger}, nil
}

// Dispatch routes one event. Unknown commands and event kinds are ignored,
// matching the platform convention that unhandled updates are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.Event) error {
	switch ev.Kind {
	case models.EventJoin:
		return d.verifier.HandleJoin(ctx, ev)
	case models.EventCommand:
		switch ev.Command {
		case "verify":
			return d.verifier.HandleVerify(ctx, ev)
		case "stats":
			return d.verifier.HandleStats(ctx, ev)
		default:
			d.logger.DebugContext(ctx, "ignoring command", "command", ev.Command)
			return nil
		}
	case models.EventText:
		return d.moderator.HandleText(ctx, ev)
	}
	return nil
}
