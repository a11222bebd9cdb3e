// Package telegram adapts the Bot API client to the gate ports. It is the
// only package aware of the platform SDK; everything above it speaks domain
// types. Network timeouts are the client's own, so the context parameters
// carry no extra deadline.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper/internal/gate/models"
)

// Client wraps a Bot API connection.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// New authenticates against the Bot API. The constructor performs a getMe
// round trip, so a bad credential fails here, at startup.
func New(token string, logger *slog.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bot authenticated", "username", api.Self.UserName)
	return &Client{api: api, logger: logger}, nil
}

// SendMessage posts text to a chat and returns the new message ID.
func (c *Client) SendMessage(_ context.Context, chatID int64, text string) (int, error) {
	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// DeleteMessage removes a message from a chat.
func (c *Client) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ChatMember returns the user's normalized standing in a chat.
func (c *Client) ChatMember(_ context.Context, chatID int64, userID models.UserID) (models.MemberStatus, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: int64(userID),
		},
	})
	if err != nil {
		return models.StatusNone, fmt.Errorf("get chat member: %w", err)
	}
	return statusFrom(member.Status), nil
}

// ExportInviteLink produces an invite link for a chat.
func (c *Client) ExportInviteLink(_ context.Context, chatID int64) (string, error) {
	link, err := c.api.GetInviteLink(tgbotapi.ChatInviteLinkConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return "", fmt.Errorf("export invite link: %w", err)
	}
	return link, nil
}

// BanMember permanently removes a user from a chat.
func (c *Client) BanMember(_ context.Context, chatID int64, userID models.UserID) error {
	_, err := c.api.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: int64(userID),
		},
	})
	if err != nil {
		return fmt.Errorf("ban chat member: %w", err)
	}
	return nil
}

// SelfPermissions reports the bot's own rights in a chat.
func (c *Client) SelfPermissions(_ context.Context, chatID int64) (models.BotPermissions, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: c.api.Self.ID,
		},
	})
	if err != nil {
		return models.BotPermissions{}, fmt.Errorf("get own chat member: %w", err)
	}

	if member.Status == "creator" {
		return models.BotPermissions{
			CanSendMessages:    true,
			CanDeleteMessages:  true,
			CanInviteUsers:     true,
			CanRestrictMembers: true,
		}, nil
	}
	return models.BotPermissions{
		// Sending is only ever revoked for restricted members.
		CanSendMessages:    member.Status != "restricted" || member.CanSendMessages,
		CanDeleteMessages:  member.CanDeleteMessages,
		CanInviteUsers:     member.CanInviteUsers,
		CanRestrictMembers: member.CanRestrictMembers,
	}, nil
}

// statusFrom normalizes the platform's member status set. Restricted, left,
// and kicked users all count as absent for gate purposes.
func statusFrom(status string) models.MemberStatus {
	switch status {
	case "creator":
		return models.StatusOwner
	case "administrator":
		return models.StatusAdmin
	case "member":
		return models.StatusMember
	}
	return models.StatusNone
}
