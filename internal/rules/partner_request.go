package rules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/trigger"
)

// PartnerRequestRule tells the addressed user about a new partnership request.
type PartnerRequestRule struct {
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewPartnerRequestRule creates the partner-request rule.
func NewPartnerRequestRule(notifier notification.Notifier, logger *zap.Logger) *PartnerRequestRule {
	return &PartnerRequestRule{notifier: notifier, logger: logger.Named("partner_request")}
}

// Handle notifies the request's addressee, naming the requester.
func (r *PartnerRequestRule) Handle(ctx context.Context, ev trigger.Event) error {
	requestID := ev.Params["requestId"]
	log := r.logger.With(zap.String("request_id", requestID))
	if ev.After == nil {
		return nil
	}

	var req domain.MatchRequest
	if err := domain.Decode(ev.After, &req); err != nil {
		return skipMissing(log, err, "Ignoring undecodable match request")
	}
	log.Info("New partner request", zap.String("from_user_id", req.FromUserID), zap.String("to_user_id", req.ToUserID))

	fromName := req.FromUserName
	if fromName == "" {
		fromName = partnerRequestDefaultName
	}

	r.notifier.Notify(ctx, notification.Notification{
		RecipientID: req.ToUserID,
		Title:       partnerRequestTitle,
		Body:        fmt.Sprintf(partnerRequestBodyFormat, fromName),
		Type:        notification.TypePartnerRequest,
		Extra:       map[string]string{"requestId": requestID, "actionId": requestID},
		Data:        map[string]string{"type": pushTypePartnerRequest, "requestId": requestID},
	})
	return nil
}
