// Package models holds the core value types shared by the gate services.
// Keep it transport-agnostic so the Telegram adapter stays the only package
// aware of the platform SDK.
package models

import (
	"fmt"
	"time"
)

// UserID is the platform's numeric user identity.
type UserID int64

// User identifies a chat participant. Handle is optional; DisplayName falls
// back to the numeric ID when it is absent.
type User struct {
	ID     UserID
	Handle string
	IsBot  bool
}

// DisplayName returns "@handle" when a handle is known, otherwise the ID.
func (u User) DisplayName() string {
	if u.Handle != "" {
		return "@" + u.Handle
	}
	return fmt.Sprintf("%d", u.ID)
}

// SpaceRole is the closed set of roles a chat plays in the gate flow.
type SpaceRole string

const (
	RoleEntry     SpaceRole = "entry"
	RoleCompanion SpaceRole = "companion"
	RoleMain      SpaceRole = "main"
	RoleOperator  SpaceRole = "operator"
)

// Space is a chat resolved once at configuration load. Handlers compare
// spaces by ID instead of carrying raw chat identifiers around.
type Space struct {
	ID   int64
	Role SpaceRole
}

// Spaces is the full set of chats the gate operates on.
type Spaces struct {
	Entry     Space
	Companion Space
	Main      Space
	Operator  Space
}

// MemberStatus is a user's membership standing in one space, normalized from
// the platform's richer status set.
type MemberStatus string

const (
	StatusNone   MemberStatus = "none"
	StatusMember MemberStatus = "member"
	StatusAdmin  MemberStatus = "admin"
	StatusOwner  MemberStatus = "owner"
)

// IsMember reports whether the status grants presence in the space.
func (s MemberStatus) IsMember() bool {
	return s == StatusMember || s == StatusAdmin || s == StatusOwner
}

// IsAdmin reports whether the status carries moderation rights.
func (s MemberStatus) IsAdmin() bool {
	return s == StatusAdmin || s == StatusOwner
}

// BotPermissions captures the rights the bot needs in the entry space.
type BotPermissions struct {
	CanSendMessages    bool
	CanDeleteMessages  bool
	CanInviteUsers     bool
	CanRestrictMembers bool
}

// Missing lists the platform permission names the bot lacks.
func (p BotPermissions) Missing() []string {
	var missing []string
	if !p.CanSendMessages {
		missing = append(missing, "can_send_messages")
	}
	if !p.CanDeleteMessages {
		missing = append(missing, "can_delete_messages")
	}
	if !p.CanInviteUsers {
		missing = append(missing, "can_invite_users")
	}
	if !p.CanRestrictMembers {
		missing = append(missing, "can_restrict_members")
	}
	return missing
}

// Outcome is the closed set of audit labels.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeFailedPrecondition Outcome = "failed-precondition"
	OutcomeWarning            Outcome = "warning"
	OutcomeError              Outcome = "error"
	OutcomeModerated          Outcome = "moderated"
)

// Label returns the stable token written to the audit log.
func (o Outcome) Label() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeFailedPrecondition:
		return "Failed"
	case OutcomeWarning:
		return "Warning"
	case OutcomeError:
		return "Error"
	case OutcomeModerated:
		return "Moderated"
	}
	return "Unknown"
}

// Notifies reports whether this outcome is also forwarded to the operator
// chat. Warnings are deliberately log-only; see DESIGN.md.
func (o Outcome) Notifies() bool {
	return o == OutcomeSuccess || o == OutcomeError
}

// AuditRecord is one immutable line of the verification trail.
type AuditRecord struct {
	Timestamp time.Time
	Outcome   Outcome
	User      User
	Detail    string
}

// Line renders the append-only log representation.
func (r AuditRecord) Line() string {
	return fmt.Sprintf("%s - %s: %s\n", r.Timestamp.UTC().Format(time.RFC3339), r.Outcome.Label(), r.Detail)
}
