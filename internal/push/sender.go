package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"easymove_notifier/internal/config"
)

// ErrEmptyToken is returned when Send is called without a device token.
var ErrEmptyToken = errors.New("push: empty device token")

// Message is a single device push.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender submits push messages to a delivery service.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client is the subset of *messaging.Client used by FCMSender.
type Client interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers pushes through Firebase Cloud Messaging. All sends
// share one token bucket so a burst of events cannot exhaust the FCM quota.
type FCMSender struct {
	client  Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewFCMSender creates a sender using the rate and timeout settings from cfg.
func NewFCMSender(client Client, cfg *config.Config, logger *zap.Logger) *FCMSender {
	return &FCMSender{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.PushRatePerSecond), cfg.PushBurst),
		timeout: cfg.PushTimeout,
		logger:  logger.Named("push"),
	}
}

// Send submits msg once. Errors are returned to the caller, never retried here.
func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrEmptyToken
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("push rate limiter: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	id, err := s.client.Send(ctx, buildMessage(msg))
	if err != nil {
		if IsStaleToken(err) {
			s.logger.Info("Push rejected for stale device token", zap.Error(err))
		}
		return fmt.Errorf("fcm send: %w", err)
	}
	s.logger.Debug("Push sent", zap.String("message_id", id), zap.Duration("latency", time.Since(start)))
	return nil
}

// IsStaleToken reports whether err means the device token is no longer valid.
func IsStaleToken(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

func buildMessage(msg Message) *messaging.Message {
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
