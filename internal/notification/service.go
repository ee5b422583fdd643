package notification

import (
	"context"

	"go.uber.org/zap"

	"easymove_notifier/internal/push"
	"easymove_notifier/internal/store"
)

// Notifier performs the dual write for one notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Service appends a history record and then attempts a device push. The two
// steps are independent: a failure in either is logged and never returned.
type Service struct {
	history Repository
	users   store.Repository
	pusher  push.Sender
	logger  *zap.Logger
}

// NewService creates a new notification service.
func NewService(history Repository, users store.Repository, pusher push.Sender, logger *zap.Logger) *Service {
	return &Service{
		history: history,
		users:   users,
		pusher:  pusher,
		logger:  logger.Named("notification"),
	}
}

// Notify records n in the recipient's history and pushes it to their device
// when a token is known. An empty recipient is a no-op.
func (s *Service) Notify(ctx context.Context, n Notification) {
	if n.RecipientID == "" {
		return
	}
	log := s.logger.With(zap.String("recipient_id", n.RecipientID), zap.String("type", string(n.Type)))

	if err := s.history.Create(ctx, NewRecord(n)); err != nil {
		log.Error("Failed to save notification history", zap.Error(err))
	}

	user, err := s.users.GetUser(ctx, n.RecipientID)
	if err != nil {
		if store.IsMissing(err) {
			log.Debug("Recipient profile not found, skipping push")
		} else {
			log.Warn("Failed to load recipient profile, skipping push", zap.Error(err))
		}
		return
	}
	if user.FCMToken == "" {
		log.Debug("No FCM token for user, skipping push")
		return
	}

	msg := push.Message{
		Token: user.FCMToken,
		Title: n.Title,
		Body:  n.Body,
		Data:  n.PushData(),
	}
	if err := s.pusher.Send(ctx, msg); err != nil {
		log.Warn("Failed to send push", zap.Error(err))
		return
	}
	log.Info("Notification delivered")
}
