package rules

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// RejectionRule reacts to a deleted match request. The status it had when it
// was deleted tells who declined: still pending means the partner declined,
// waiting_for_mover means the move owner did.
type RejectionRule struct {
	store    store.Repository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewRejectionRule creates the rule for deleted match requests.
func NewRejectionRule(st store.Repository, notifier notification.Notifier, logger *zap.Logger) *RejectionRule {
	return &RejectionRule{store: st, notifier: notifier, logger: logger.Named("rejection")}
}

// Handle notifies the requester when the partner declined, and both users
// concurrently when the mover declined. Other statuses are ignored.
func (r *RejectionRule) Handle(ctx context.Context, ev trigger.Event) error {
	requestID := ev.Params["requestId"]
	log := r.logger.With(zap.String("request_id", requestID))
	if ev.Before == nil {
		return nil
	}

	var req domain.MatchRequest
	if err := domain.Decode(ev.Before, &req); err != nil {
		return skipMissing(log, err, "Ignoring undecodable match request")
	}
	log.Info("Match request deleted", zap.String("status", req.Status))

	switch req.Status {
	case domain.MatchStatusPending:
		partnerName, err := displayName(ctx, r.store, req.ToUserID, partnerRejectedDefaultName)
		if err != nil {
			return err
		}
		r.notifier.Notify(ctx, notification.Notification{
			RecipientID: req.FromUserID,
			Title:       partnerRejectedTitle,
			Body:        fmt.Sprintf(partnerRejectedBodyFormat, partnerName),
			Type:        notification.TypePartnerRejected,
			Data:        map[string]string{"type": pushTypeSystemMessage},
		})

	case domain.MatchStatusWaitingForMover:
		var wg sync.WaitGroup
		for _, recipientID := range []string{req.FromUserID, req.ToUserID} {
			wg.Add(1)
			go func(recipientID string) {
				defer wg.Done()
				defer func() {
					if p := recover(); p != nil {
						log.Error("Rejection notification panicked",
							zap.String("recipient_id", recipientID),
							zap.Any("panic", p),
						)
					}
				}()
				r.notifier.Notify(ctx, notification.Notification{
					RecipientID: recipientID,
					Title:       moverRejectedTitle,
					Body:        moverRejectedBody,
					Type:        notification.TypeMoverRejected,
					Data:        map[string]string{"type": pushTypeSystemMessage},
				})
			}(recipientID)
		}
		wg.Wait()
	}
	return nil
}
