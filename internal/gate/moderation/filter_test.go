package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/audit"
	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/platform/metrics"
)

const entryID = int64(-400)

type stubOracle struct {
	status models.MemberStatus
	err    error
	calls  int
}

func (o *stubOracle) Status(_ context.Context, _ models.Space, _ models.UserID) (models.MemberStatus, error) {
	o.calls++
	return o.status, o.err
}

type stubMessenger struct {
	mu        sync.Mutex
	deletes   []int
	deleteErr error
}

func (m *stubMessenger) SendMessage(context.Context, int64, string) (int, error) {
	return 0, nil
}

func (m *stubMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, messageID)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error { return nil }

// =============================================================================
// Moderation Filter Test Suite
// =============================================================================

type FilterSuite struct {
	suite.Suite
	oracle *stubOracle
	msgr   *stubMessenger
	store  *audit.InMemoryStore
	filter *Filter
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

func (s *FilterSuite) SetupTest() {
	s.oracle = &stubOracle{}
	s.msgr = &stubMessenger{}
	s.store = audit.NewInMemoryStore()

	sink, err := audit.New(s.store, noopNotifier{}, nil)
	s.Require().NoError(err)

	spaces := models.Spaces{Entry: models.Space{ID: entryID, Role: models.RoleEntry}}
	s.filter, err = New(s.oracle, s.msgr, sink, metrics.New(prometheus.NewRegistry()), nil, spaces)
	s.Require().NoError(err)
}

func textEvent() models.Event {
	return models.Event{
		Kind:      models.EventText,
		ChatID:    entryID,
		MessageID: 42,
		Sender:    models.User{ID: 555, Handle: "bob"},
		Text:      "hello everyone",
	}
}

func (s *FilterSuite) TestHandleText() {
	ctx := context.Background()

	s.Run("deletes non-admin chatter and audits it", func() {
		s.oracle.status = models.StatusMember

		s.NoError(s.filter.HandleText(ctx, textEvent()))

		s.Equal([]int{42}, s.msgr.deletes)
		records := s.store.Records()
		s.Require().Len(records, 1)
		s.Equal(models.OutcomeModerated, records[0].Outcome)
		s.Contains(records[0].Detail, `message "hello everyone" deleted`)
	})

	s.Run("leaves admin messages alone", func() {
		s.SetupTest()
		s.oracle.status = models.StatusAdmin

		s.NoError(s.filter.HandleText(ctx, textEvent()))

		s.Empty(s.msgr.deletes)
		s.Empty(s.store.Records())
	})

	s.Run("failed admin check falls back to deleting", func() {
		s.SetupTest()
		s.oracle.err = errors.New("lookup failed")

		s.NoError(s.filter.HandleText(ctx, textEvent()))

		s.Equal([]int{42}, s.msgr.deletes)
	})

	s.Run("ignores other chats", func() {
		s.SetupTest()
		ev := textEvent()
		ev.ChatID = 999

		s.NoError(s.filter.HandleText(ctx, ev))

		s.Zero(s.oracle.calls)
		s.Empty(s.msgr.deletes)
	})

	s.Run("ignores bots and commands", func() {
		s.SetupTest()
		botEv := textEvent()
		botEv.Sender.IsBot = true
		s.NoError(s.filter.HandleText(ctx, botEv))

		cmdEv := textEvent()
		cmdEv.Kind = models.EventCommand
		cmdEv.Command = "verify"
		s.NoError(s.filter.HandleText(ctx, cmdEv))

		s.Empty(s.msgr.deletes)
		s.Empty(s.store.Records())
	})

	s.Run("deletion failure is audited as an error", func() {
		s.SetupTest()
		s.msgr.deleteErr = errors.New("not enough rights")

		s.NoError(s.filter.HandleText(ctx, textEvent()))

		records := s.store.Records()
		s.Require().Len(records, 1)
		s.Equal(models.OutcomeError, records[0].Outcome)
		s.Contains(records[0].Detail, "failed to delete message")
	})
}
