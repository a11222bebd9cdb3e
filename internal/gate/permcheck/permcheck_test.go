package permcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/gate/models"
)

type stubPerms struct {
	perms models.BotPermissions
	err   error
}

func (p *stubPerms) SelfPermissions(_ context.Context, _ int64) (models.BotPermissions, error) {
	return p.perms, p.err
}

type stubNotifier struct {
	texts []string
}

func (n *stubNotifier) Notify(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

// =============================================================================
// Permission Check Test Suite
// =============================================================================

type PermcheckSuite struct {
	suite.Suite
	perms    *stubPerms
	notifier *stubNotifier
	checker  *Checker
}

func TestPermcheckSuite(t *testing.T) {
	suite.Run(t, new(PermcheckSuite))
}

func (s *PermcheckSuite) SetupTest() {
	s.perms = &stubPerms{}
	s.notifier = &stubNotifier{}
	var err error
	s.checker, err = New(s.perms, s.notifier, nil, models.Space{ID: -400, Role: models.RoleEntry})
	s.Require().NoError(err)
}

func (s *PermcheckSuite) TestRun() {
	ctx := context.Background()

	s.Run("full permissions stay quiet", func() {
		s.perms.perms = models.BotPermissions{
			CanSendMessages:    true,
			CanDeleteMessages:  true,
			CanInviteUsers:     true,
			CanRestrictMembers: true,
		}

		s.NoError(s.checker.Run(ctx))
		s.Empty(s.notifier.texts)
	})

	s.Run("missing rights are reported by name", func() {
		s.SetupTest()
		s.perms.perms = models.BotPermissions{
			CanSendMessages:   true,
			CanDeleteMessages: true,
		}

		s.NoError(s.checker.Run(ctx), "missing rights are never fatal")
		s.Require().Len(s.notifier.texts, 1)
		s.Equal("Bot lacks permissions in entry group: can_invite_users, can_restrict_members", s.notifier.texts[0])
	})

	s.Run("lookup failure notifies and returns the error", func() {
		s.SetupTest()
		s.perms.err = errors.New("chat not found")

		err := s.checker.Run(ctx)
		s.Error(err)
		s.Require().Len(s.notifier.texts, 1)
		s.Contains(s.notifier.texts[0], "Error checking bot permissions")
	})
}
