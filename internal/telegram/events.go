package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper/internal/gate/models"
)

// EventFromUpdate translates a raw Bot API update into a domain event.
// The second return is false for update shapes the gate does not handle
// (edits, callbacks, media, and so on).
func EventFromUpdate(upd tgbotapi.Update) (models.Event, bool) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return models.Event{}, false
	}

	ev := models.Event{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
	}
	if msg.From != nil {
		ev.Sender = userFrom(*msg.From)
	}

	switch {
	case len(msg.NewChatMembers) > 0:
		ev.Kind = models.EventJoin
		for _, u := range msg.NewChatMembers {
			ev.Joined = append(ev.Joined, userFrom(u))
		}
	case msg.IsCommand():
		// Entity-based parsing tolerates the /verify@BotName form.
		ev.Kind = models.EventCommand
		ev.Command = msg.Command()
		ev.Text = msg.Text
	case msg.Text != "":
		ev.Kind = models.EventText
		ev.Text = msg.Text
	default:
		return models.Event{}, false
	}
	return ev, true
}

func userFrom(u tgbotapi.User) models.User {
	return models.User{
		ID:     models.UserID(u.ID),
		Handle: u.UserName,
		IsBot:  u.IsBot,
	}
}
