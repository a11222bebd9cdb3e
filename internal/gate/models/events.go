package models

// EventKind discriminates inbound platform events after translation.
type EventKind string

const (
	// EventJoin is a new_chat_members update.
	EventJoin EventKind = "join"
	// EventCommand is a text message carrying a bot command.
	EventCommand EventKind = "command"
	// EventText is any other text message.
	EventText EventKind = "text"
)

// Event is an inbound platform event in domain terms. The Telegram adapter
// produces these; gate services never see raw SDK updates.
type Event struct {
	Kind      EventKind
	ChatID    int64
	MessageID int
	Sender    User

	// Text is the raw message text for EventText and EventCommand.
	Text string
	// Command is the parsed command name without the leading slash or any
	// @BotName suffix. Empty unless Kind is EventCommand.
	Command string
	// Joined holds the new members for EventJoin.
	Joined []User
}
