// Package permcheck verifies at startup that the bot holds the rights it
// needs in the entry group. Missing rights are reported to the operator and
// logged; they are never auto-remedied and never fatal.
package permcheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/gate/ports"
)

// Checker runs the one-shot permission self check.
type Checker struct {
	perms    ports.PermissionLookup
	notifier ports.Notifier
	logger   *slog.Logger
	entry    models.Space
}

// New validates dependencies and builds the checker.
func New(perms ports.PermissionLookup, notifier ports.Notifier, logger *slog.Logger, entry models.Space) (*Checker, error) {
	if perms == nil {
		return nil, fmt.Errorf("permission lookup is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("operator notifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{perms: perms, notifier: notifier, logger: logger, entry: entry}, nil
}

// Run performs the check and reports findings. It returns an error only when
// the check itself could not be performed.
func (c *Checker) Run(ctx context.Context) error {
	perms, err := c.perms.SelfPermissions(ctx, c.entry.ID)
	if err != nil {
		c.logger.ErrorContext(ctx, "bot permission check failed", "error", err)
		c.notify(ctx, fmt.Sprintf("Error checking bot permissions: %v", err))
		return fmt.Errorf("check bot permissions: %w", err)
	}

	missing := perms.Missing()
	if len(missing) == 0 {
		c.logger.InfoContext(ctx, "bot has all required permissions in entry group")
		return nil
	}

	c.logger.WarnContext(ctx, "bot lacks permissions in entry group",
		"missing", strings.Join(missing, ", "),
	)
	c.notify(ctx, fmt.Sprintf("Bot lacks permissions in entry group: %s", strings.Join(missing, ", ")))
	return nil
}

func (c *Checker) notify(ctx context.Context, text string) {
	if err := c.notifier.Notify(ctx, text); err != nil {
		c.logger.WarnContext(ctx, "operator notification failed", "error", err)
	}
}
