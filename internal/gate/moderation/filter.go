// Package moderation suppresses free discussion in the entry group: any text
// from a non-admin that is not a command gets deleted and audited.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/gate/ports"
	"gatekeeper/internal/platform/metrics"
)

// Filter is the entry-group message filter.
type Filter struct {
	oracle  ports.Oracle
	msgr    ports.Messenger
	audit   ports.Recorder
	metrics *metrics.Metrics
	logger  *slog.Logger
	spaces  models.Spaces
}

// New validates dependencies and builds the filter.
func New(oracle ports.Oracle, msgr ports.Messenger, audit ports.Recorder, m *metrics.Metrics, logger *slog.Logger, spaces models.Spaces) (*Filter, error) {
	if oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if msgr == nil {
		return nil, fmt.Errorf("messenger is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{oracle: oracle, msgr: msgr, audit: audit, metrics: m, logger: logger, spaces: spaces}, nil
}

// HandleText applies the filter to one text event. Commands and platform
// bots pass through untouched; commands are handled by their own matchers.
func (f *Filter) HandleText(ctx context.Context, ev models.Event) error {
	if ev.ChatID != f.spaces.Entry.ID {
		return nil
	}
	if ev.Sender.IsBot {
		return nil
	}
	if ev.Kind == models.EventCommand {
		return nil
	}

	status, err := f.oracle.Status(ctx, f.spaces.Entry, ev.Sender.ID)
	if err != nil {
		// Same stance as an unknown member: a failed admin check never
		// grants the benefit of the doubt in a gated space.
		f.logger.WarnContext(ctx, "admin check failed, treating as non-admin",
			"user_id", ev.Sender.ID,
			"error", err,
		)
		status = models.StatusNone
	}
	if status.IsAdmin() {
		return nil
	}

	if err := f.msgr.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		f.logger.WarnContext(ctx, "failed to delete non-admin message",
			"user_id", ev.Sender.ID,
			"message_id", ev.MessageID,
			"error", err,
		)
		return f.audit.Record(ctx, models.OutcomeError, ev.Sender,
			fmt.Sprintf("failed to delete message from user %s (ID: %d): %v", ev.Sender.DisplayName(), ev.Sender.ID, err))
	}

	if f.metrics != nil {
		f.metrics.ModeratedMessages.Inc()
	}
	return f.audit.Record(ctx, models.OutcomeModerated, ev.Sender,
		fmt.Sprintf("user %s (ID: %d) message %q deleted", ev.Sender.DisplayName(), ev.Sender.ID, ev.Text))
}
