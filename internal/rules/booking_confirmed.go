package rules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// BookingConfirmedRule tells the customer their booking was confirmed when
// its status enters the configured sentinel. One instance is bound per
// booking collection.
type BookingConfirmedRule struct {
	confirmedStatus string
	store           store.Repository
	notifier        notification.Notifier
	logger          *zap.Logger
}

// NewBookingConfirmedRule creates a rule that fires when a booking status enters confirmedStatus.
func NewBookingConfirmedRule(confirmedStatus string, st store.Repository, notifier notification.Notifier, logger *zap.Logger) *BookingConfirmedRule {
	return &BookingConfirmedRule{
		confirmedStatus: confirmedStatus,
		store:           st,
		notifier:        notifier,
		logger:          logger.Named("booking_confirmed"),
	}
}

// Handle notifies the customer with the mover's name. Missing documents are skipped.
func (r *BookingConfirmedRule) Handle(ctx context.Context, ev trigger.Event) error {
	requestID := ev.Params["requestId"]
	log := r.logger.With(zap.String("request_id", requestID), zap.String("document", ev.Document))
	if ev.Before == nil || ev.After == nil {
		return nil
	}

	var before, after domain.Move
	if err := domain.Decode(ev.Before, &before); err != nil {
		return skipMissing(log, err, "Ignoring undecodable booking")
	}
	if err := domain.Decode(ev.After, &after); err != nil {
		return skipMissing(log, err, "Ignoring undecodable booking")
	}
	if !statusEntered(before.Status, after.Status, r.confirmedStatus) {
		return nil
	}

	if after.CustomerID == "" {
		log.Debug("Booking has no customer, skipping")
		return nil
	}

	moverName, err := displayName(ctx, r.store, after.MoverID, bookingDefaultMoverName)
	if err != nil {
		return err
	}

	if _, err := r.store.GetUser(ctx, after.CustomerID); err != nil {
		return skipMissing(log, err, "Customer profile not found, skipping")
	}
	log.Info("Booking confirmed, notifying customer", zap.String("customer_id", after.CustomerID))

	r.notifier.Notify(ctx, notification.Notification{
		RecipientID: after.CustomerID,
		Title:       bookingAcceptedTitle,
		Body:        fmt.Sprintf(bookingAcceptedBodyFmt, moverName),
		Type:        notification.TypeBookingAccepted,
		Extra:       map[string]string{"requestId": requestID},
		Data:        map[string]string{"requestId": requestID, "type": pushTypeOrderUpdate},
	})
	return nil
}
