package rules

import (
	"context"

	"go.uber.org/zap"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// ChatMessageRule notifies the other participant of a chat about a new message.
type ChatMessageRule struct {
	store    store.Repository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewChatMessageRule creates the new-message rule.
func NewChatMessageRule(st store.Repository, notifier notification.Notifier, logger *zap.Logger) *ChatMessageRule {
	return &ChatMessageRule{store: st, notifier: notifier, logger: logger.Named("chat_message")}
}

// Handle pushes the message text to the participant who did not send it,
// titled with the sender's name.
func (r *ChatMessageRule) Handle(ctx context.Context, ev trigger.Event) error {
	chatID := ev.Params["chatId"]
	log := r.logger.With(zap.String("chat_id", chatID))

	var msg domain.ChatMessage
	if err := domain.Decode(ev.After, &msg); err != nil {
		return skipMissing(log, err, "Ignoring undecodable chat message")
	}
	text := msg.Body(chatPhotoPlaceholder)
	log.Info("New chat message", zap.String("sender_id", msg.SenderID))

	chat, err := r.store.GetChat(ctx, chatID)
	if err != nil {
		return skipMissing(log, err, "Chat not found, skipping")
	}

	recipientID, ok := chat.OtherParticipant(msg.SenderID)
	if !ok {
		log.Debug("No other participant in chat, skipping")
		return nil
	}

	senderName, err := displayName(ctx, r.store, msg.SenderID, chatDefaultSenderName)
	if err != nil {
		return err
	}

	r.notifier.Notify(ctx, notification.Notification{
		RecipientID: recipientID,
		Title:       senderName,
		Body:        text,
		Type:        notification.TypeChat,
		Extra:       map[string]string{"chatId": chatID},
	})
	return nil
}
