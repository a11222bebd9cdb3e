// Package oracle wraps the platform's live membership lookup. Every call is
// one network-bound query; results are never cached, so consecutive calls in
// one flow may disagree. That is eventual consistency, not a bug.
package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/gate/ports"
	dErrors "gatekeeper/pkg/domain-errors"
)

// Service is the membership oracle consumed by the verifier and the
// moderation filter.
type Service struct {
	members ports.MemberLookup
	logger  *slog.Logger
}

// New validates dependencies and builds the oracle.
func New(members ports.MemberLookup, logger *slog.Logger) (*Service, error) {
	if members == nil {
		return nil, fmt.Errorf("member lookup is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{members: members, logger: logger}, nil
}

// Status returns the user's standing in the space. Any platform failure is
// normalized to a transient error; callers own the retry policy.
func (s *Service) Status(ctx context.Context, space models.Space, userID models.UserID) (models.MemberStatus, error) {
	status, err := s.members.ChatMember(ctx, space.ID, userID)
	if err != nil {
		s.logger.DebugContext(ctx, "membership lookup failed",
			"space", space.Role,
			"user_id", userID,
			"error", err,
		)
		return models.StatusNone, dErrors.Wrap(dErrors.CodeTransient,
			fmt.Sprintf("membership lookup in %s space", space.Role), err)
	}
	return status, nil
}
