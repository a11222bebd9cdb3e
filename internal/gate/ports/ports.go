// Package ports defines shared interfaces for the gate module.
// Interfaces live here when consumed by multiple services to avoid
// duplication; the Telegram adapter satisfies the platform-facing ones.
package ports

import (
	"context"
	"time"

	"gatekeeper/internal/gate/models"
)

// Messenger sends and deletes chat messages.
type Messenger interface {
	// SendMessage posts text to a chat and returns the new message ID.
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	// DeleteMessage removes a message from a chat.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// MemberLookup queries a user's live membership standing in a chat.
type MemberLookup interface {
	ChatMember(ctx context.Context, chatID int64, userID models.UserID) (models.MemberStatus, error)
}

// InviteIssuer produces an invite link for a chat.
type InviteIssuer interface {
	ExportInviteLink(ctx context.Context, chatID int64) (string, error)
}

// Evictor permanently removes a user from a chat.
type Evictor interface {
	BanMember(ctx context.Context, chatID int64, userID models.UserID) error
}

// PermissionLookup reports the bot's own rights in a chat.
type PermissionLookup interface {
	SelfPermissions(ctx context.Context, chatID int64) (models.BotPermissions, error)
}

// Oracle is the eventually consistent membership lookup used by the
// verification flow. Consecutive calls may observe different results.
type Oracle interface {
	Status(ctx context.Context, space models.Space, userID models.UserID) (models.MemberStatus, error)
}

// CooldownGate is the per-user rate limit on verification attempts.
type CooldownGate interface {
	// TryAcquire reports whether an attempt is allowed now. When denied,
	// remaining is the wait left in the cooldown window.
	TryAcquire(userID models.UserID) (allowed bool, remaining time.Duration)
}

// Recorder appends to the verification audit trail and forwards a subset of
// outcomes to the operator chat.
type Recorder interface {
	Record(ctx context.Context, outcome models.Outcome, user models.User, detail string) error
}

// Notifier delivers a message to the operator chat directly, for reports
// that carry no audit record (startup permission problems, invite failures
// during welcome).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Janitor schedules best-effort deletion of a transient notice.
type Janitor interface {
	ScheduleDelete(chatID int64, messageID int, delay time.Duration)
}
