// Package verifier orchestrates the challenge/response flow for one user:
// entry welcome, /verify challenge, companion proof check, main-group grant,
// and the confirm-and-evict polling loop.
package verifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/gate/ports"
	"gatekeeper/internal/platform/metrics"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/retry"
)

const (
	defaultNoticeTTL       = time.Minute
	defaultConfirmAttempts = 3
	defaultConfirmInterval = 5 * time.Second
)

// Deps collects the collaborators of the verification flow. Everything is
// injected once at process start; the service holds no hidden global state.
type Deps struct {
	Oracle    ports.Oracle
	Cooldown  ports.CooldownGate
	Messenger ports.Messenger
	Invites   ports.InviteIssuer
	Evictor   ports.Evictor
	Audit     ports.Recorder
	Notifier  ports.Notifier
	Janitor   ports.Janitor
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Spaces    models.Spaces

	// NoticeTTL is how long transient notices live; zero means one minute.
	NoticeTTL time.Duration
	// ConfirmAttempts bounds the confirm-and-evict loop; zero means three.
	ConfirmAttempts int
	// ConfirmInterval separates confirmation polls; zero means five seconds.
	ConfirmInterval time.Duration
}

// Service is the verification state machine.
type Service struct {
	deps     Deps
	verified atomic.Int64
	pollOpts []retry.Option
}

// Option configures a Service.
type Option func(*Service)

// WithPollSleep replaces the confirm-loop sleep for testability.
func WithPollSleep(sleep retry.Sleep) Option {
	return func(s *Service) {
		s.pollOpts = append(s.pollOpts, retry.WithSleep(sleep))
	}
}

// New validates dependencies and builds the service.
func New(deps Deps, opts ...Option) (*Service, error) {
	if deps.Oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if deps.Cooldown == nil {
		return nil, fmt.Errorf("cooldown gate is required")
	}
	if deps.Messenger == nil {
		return nil, fmt.Errorf("messenger is required")
	}
	if deps.Invites == nil {
		return nil, fmt.Errorf("invite issuer is required")
	}
	if deps.Evictor == nil {
		return nil, fmt.Errorf("evictor is required")
	}
	if deps.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("operator notifier is required")
	}
	if deps.Janitor == nil {
		return nil, fmt.Errorf("janitor is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.NoticeTTL <= 0 {
		deps.NoticeTTL = defaultNoticeTTL
	}
	if deps.ConfirmAttempts <= 0 {
		deps.ConfirmAttempts = defaultConfirmAttempts
	}
	if deps.ConfirmInterval <= 0 {
		deps.ConfirmInterval = defaultConfirmInterval
	}

	s := &Service{deps: deps}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// VerifiedCount returns the number of successful verifications since process
// start. Resets to zero on restart.
func (s *Service) VerifiedCount() int64 {
	return s.verified.Load()
}

// HandleJoin welcomes new entry-group arrivals with a companion-group invite
// link. No state is retained: the user must still issue /verify.
func (s *Service) HandleJoin(ctx context.Context, ev models.Event) error {
	if ev.ChatID != s.deps.Spaces.Entry.ID {
		return nil
	}
	for _, user := range ev.Joined {
		if user.IsBot {
			continue
		}
		s.welcome(ctx, user)
	}
	return nil
}

func (s *Service) welcome(ctx context.Context, user models.User) {
	link, err := s.deps.Invites.ExportInviteLink(ctx, s.deps.Spaces.Companion.ID)
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "companion invite link failed",
			"user_id", user.ID,
			"error", err,
		)
		s.reply(ctx, "Error generating invite link. Please contact an admin.")
		s.notify(ctx, fmt.Sprintf("Error generating companion group invite link for user %d: %v", user.ID, err))
		return
	}

	text := fmt.Sprintf(
		"Welcome! To join the main group, please join the companion group first:\n%s\nThen type /verify here.\nThis message will be deleted in %d seconds.",
		link, int(s.deps.NoticeTTL.Seconds()),
	)
	msgID, err := s.deps.Messenger.SendMessage(ctx, s.deps.Spaces.Entry.ID, text)
	if err != nil {
		s.deps.Logger.WarnContext(ctx, "welcome notice failed",
			"user_id", user.ID,
			"error", err,
		)
		return
	}
	s.deps.Janitor.ScheduleDelete(s.deps.Spaces.Entry.ID, msgID, s.deps.NoticeTTL)
}

// HandleVerify runs the /verify challenge for the sender. All unexpected
// failures end in the generic apology, an error audit record, and an
// operator notification.
func (s *Service) HandleVerify(ctx context.Context, ev models.Event) error {
	if ev.ChatID != s.deps.Spaces.Entry.ID {
		s.replyTo(ctx, ev.ChatID, "Please use /verify in the entry group.")
		return nil
	}

	user := ev.Sender
	allowed, remaining := s.deps.Cooldown.TryAcquire(user.ID)
	if !allowed {
		// Rate-limit denials are transient and deliberately unaudited.
		s.reply(ctx, fmt.Sprintf("Please wait %d seconds before trying /verify again.", ceilSeconds(remaining)))
		return nil
	}

	if err := s.verify(ctx, ev); err != nil {
		s.deps.Logger.ErrorContext(ctx, "verification failed",
			"user_id", user.ID,
			"error", err,
			"code", dErrors.CodeOf(err),
		)
		s.reply(ctx, "Something went wrong. Please try again or contact an admin.")
		s.observe(models.OutcomeError)
		detail := fmt.Sprintf("user %s (ID: %d): %v", user.DisplayName(), user.ID, err)
		if rerr := s.deps.Audit.Record(ctx, models.OutcomeError, user, detail); rerr != nil {
			s.deps.Logger.ErrorContext(ctx, "audit record failed", "error", rerr)
		}
	}
	return nil
}

func (s *Service) verify(ctx context.Context, ev models.Event) error {
	user := ev.Sender

	status, err := s.deps.Oracle.Status(ctx, s.deps.Spaces.Companion, user.ID)
	if err != nil {
		return err
	}
	if !status.IsMember() {
		s.reply(ctx, "Please join the companion group first, then try /verify again.")
		s.observe(models.OutcomeFailedPrecondition)
		return s.deps.Audit.Record(ctx, models.OutcomeFailedPrecondition, user,
			fmt.Sprintf("user %s (ID: %d) not in companion group", user.DisplayName(), user.ID))
	}

	link, err := s.deps.Invites.ExportInviteLink(ctx, s.deps.Spaces.Main.ID)
	if err != nil {
		return err
	}
	if link == "" {
		return dErrors.New(dErrors.CodeEmptyResult, "main group invite link is empty")
	}

	text := fmt.Sprintf("Success! Join here: %s\nThis message will be deleted in %d seconds.",
		link, int(s.deps.NoticeTTL.Seconds()))
	msgID, err := s.deps.Messenger.SendMessage(ctx, s.deps.Spaces.Entry.ID, text)
	if err != nil {
		return err
	}

	s.verified.Add(1)
	if s.deps.Metrics != nil {
		s.deps.Metrics.Verifications.Inc()
	}

	// Best effort: a lingering /verify command is cosmetic.
	if err := s.deps.Messenger.DeleteMessage(ctx, s.deps.Spaces.Entry.ID, ev.MessageID); err != nil {
		s.deps.Logger.WarnContext(ctx, "failed to delete command message",
			"user_id", user.ID,
			"message_id", ev.MessageID,
			"error", err,
		)
	}
	s.deps.Janitor.ScheduleDelete(s.deps.Spaces.Entry.ID, msgID, s.deps.NoticeTTL)

	return s.confirmAndEvict(ctx, user)
}

// confirmAndEvict polls the main group until the user shows up there, then
// removes them from the entry group. The loop is sequential with a fixed
// interval; a failed poll consumes the attempt. An eviction failure aborts.
func (s *Service) confirmAndEvict(ctx context.Context, user models.User) error {
	confirmed, err := retry.Poll(ctx, s.deps.ConfirmAttempts, s.deps.ConfirmInterval, func(ctx context.Context) (bool, error) {
		status, err := s.deps.Oracle.Status(ctx, s.deps.Spaces.Main, user.ID)
		if err != nil {
			s.deps.Logger.WarnContext(ctx, "main group membership poll failed",
				"user_id", user.ID,
				"error", err,
			)
			return false, nil
		}
		if !status.IsMember() {
			return false, nil
		}
		if err := s.deps.Evictor.BanMember(ctx, s.deps.Spaces.Entry.ID, user.ID); err != nil {
			return false, fmt.Errorf("evict from entry group: %w", err)
		}
		return true, nil
	}, s.pollOpts...)
	if err != nil {
		return err
	}

	if confirmed {
		s.observe(models.OutcomeSuccess)
		return s.deps.Audit.Record(ctx, models.OutcomeSuccess, user,
			fmt.Sprintf("user %s (ID: %d) verified, joined main group, and removed from entry group", user.DisplayName(), user.ID))
	}

	// Verified but never seen in the main group: log-only warning, no
	// operator notification. See DESIGN.md for the kept asymmetry.
	s.observe(models.OutcomeWarning)
	return s.deps.Audit.Record(ctx, models.OutcomeWarning, user,
		fmt.Sprintf("user %s (ID: %d) verified but not removed (not in main group after retries)", user.DisplayName(), user.ID))
}

// HandleStats answers the admin-only verification counter query.
func (s *Service) HandleStats(ctx context.Context, ev models.Event) error {
	if ev.ChatID != s.deps.Spaces.Entry.ID {
		s.replyTo(ctx, ev.ChatID, "Please use /stats in the entry group.")
		return nil
	}

	status, err := s.deps.Oracle.Status(ctx, s.deps.Spaces.Entry, ev.Sender.ID)
	if err != nil {
		s.deps.Logger.WarnContext(ctx, "admin check failed for /stats",
			"user_id", ev.Sender.ID,
			"error", err,
		)
		status = models.StatusNone
	}
	if !status.IsAdmin() {
		s.reply(ctx, "Only admins can use /stats.")
		return nil
	}
	s.reply(ctx, fmt.Sprintf("Total successful verifications: %d", s.VerifiedCount()))
	return nil
}

func (s *Service) reply(ctx context.Context, text string) {
	s.replyTo(ctx, s.deps.Spaces.Entry.ID, text)
}

func (s *Service) replyTo(ctx context.Context, chatID int64, text string) {
	if _, err := s.deps.Messenger.SendMessage(ctx, chatID, text); err != nil {
		s.deps.Logger.WarnContext(ctx, "reply failed", "chat_id", chatID, "error", err)
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if err := s.deps.Notifier.Notify(ctx, text); err != nil {
		s.deps.Logger.WarnContext(ctx, "operator notification failed", "error", err)
	}
}

func (s *Service) observe(outcome models.Outcome) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveOutcome(outcome)
	}
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
