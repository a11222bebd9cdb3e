package audit

import (
	"context"
	"fmt"

	"gatekeeper/internal/gate/ports"
)

// OperatorNotifier delivers messages to the fixed operator chat.
type OperatorNotifier struct {
	msgr   ports.Messenger
	chatID int64
}

// NewOperatorNotifier builds a notifier bound to the operator chat.
func NewOperatorNotifier(msgr ports.Messenger, chatID int64) (*OperatorNotifier, error) {
	if msgr == nil {
		return nil, fmt.Errorf("messenger is required")
	}
	return &OperatorNotifier{msgr: msgr, chatID: chatID}, nil
}

// Notify sends text to the operator chat.
func (n *OperatorNotifier) Notify(ctx context.Context, text string) error {
	if _, err := n.msgr.SendMessage(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("notify operator: %w", err)
	}
	return nil
}
