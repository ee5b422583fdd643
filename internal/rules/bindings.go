package rules

import (
	"go.uber.org/zap"

	"easymove_notifier/internal/config"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// Bindings returns the trigger table: which document path and change kind
// runs which rule.
func Bindings(cfg *config.Config, st store.Repository, notifier notification.Notifier, logger *zap.Logger) []trigger.Binding {
	logger = logger.Named("rules")
	bindings := []trigger.Binding{
		{
			Name:    "chat-message",
			Pattern: store.ChatsCollection + "/{chatId}/messages/{messageId}",
			Kind:    trigger.KindCreated,
			Rule:    NewChatMessageRule(st, notifier, logger),
		},
		{
			Name:    "partner-request",
			Pattern: "match_requests/{requestId}",
			Kind:    trigger.KindCreated,
			Rule:    NewPartnerRequestRule(notifier, logger),
		},
		{
			Name:    "partner-approval",
			Pattern: "match_requests/{requestId}",
			Kind:    trigger.KindUpdated,
			Rule:    NewPartnerApprovalRule(st, notifier, logger),
		},
		{
			Name:    "partner-rejection",
			Pattern: "match_requests/{requestId}",
			Kind:    trigger.KindDeleted,
			Rule:    NewRejectionRule(st, notifier, logger),
		},
		{
			Name:    "booking-confirmed",
			Pattern: store.MovesCollection + "/{requestId}",
			Kind:    trigger.KindUpdated,
			Rule:    NewBookingConfirmedRule(cfg.BookingMovesConfirmedStatus, st, notifier, logger),
		},
	}
	if cfg.BookingRequestsEnabled {
		bindings = append(bindings, trigger.Binding{
			Name:    "booking-accepted",
			Pattern: store.RequestsCollection + "/{requestId}",
			Kind:    trigger.KindUpdated,
			Rule:    NewBookingConfirmedRule(cfg.BookingRequestsConfirmedStatus, st, notifier, logger),
		})
	}
	return bindings
}
