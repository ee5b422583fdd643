package rules

import (
	"context"

	"go.uber.org/zap"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// PartnerApprovalRule asks the move owner to confirm once the partner has
// accepted, i.e. when a match request enters waiting_for_mover.
type PartnerApprovalRule struct {
	store    store.Repository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewPartnerApprovalRule creates the partner-approval rule.
func NewPartnerApprovalRule(st store.Repository, notifier notification.Notifier, logger *zap.Logger) *PartnerApprovalRule {
	return &PartnerApprovalRule{store: st, notifier: notifier, logger: logger.Named("partner_approval")}
}

// Handle notifies the mover of the linked move on the transition into
// waiting_for_mover. Any other update is a no-op.
func (r *PartnerApprovalRule) Handle(ctx context.Context, ev trigger.Event) error {
	requestID := ev.Params["requestId"]
	log := r.logger.With(zap.String("request_id", requestID))
	if ev.Before == nil || ev.After == nil {
		return nil
	}

	var before, after domain.MatchRequest
	if err := domain.Decode(ev.Before, &before); err != nil {
		return skipMissing(log, err, "Ignoring undecodable match request")
	}
	if err := domain.Decode(ev.After, &after); err != nil {
		return skipMissing(log, err, "Ignoring undecodable match request")
	}
	if !statusEntered(before.Status, after.Status, domain.MatchStatusWaitingForMover) {
		return nil
	}
	log.Info("Match request approved by partner, notifying mover", zap.String("move_id", after.MoveID))

	move, err := r.store.GetMove(ctx, store.MovesCollection, after.MoveID)
	if err != nil {
		return skipMissing(log, err, "Move not found, skipping")
	}
	if move.MoverID == "" {
		log.Debug("Move has no mover, skipping", zap.String("move_id", after.MoveID))
		return nil
	}

	r.notifier.Notify(ctx, notification.Notification{
		RecipientID: move.MoverID,
		Title:       partnerApprovalTitle,
		Body:        partnerApprovalBody,
		Type:        notification.TypePartnerApprovalNeeded,
		Extra:       map[string]string{"requestId": requestID, "moveId": after.MoveID},
		Data:        map[string]string{"type": pushTypeMoverPartnerApproval, "moveId": after.MoveID},
	})
	return nil
}
