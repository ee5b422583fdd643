//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"easymove_notifier/internal/app"
	"easymove_notifier/internal/config"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/platform/metrics"
	"easymove_notifier/internal/push"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideFirebase,
		provideFirestore,
		provideHistoryDB,
		metrics.New,

		// Document reads
		store.NewFirestoreRepository,
		wire.Bind(new(store.Repository), new(*store.FirestoreRepository)),

		// Delivery
		provideFCMSender,
		wire.Bind(new(push.Sender), new(*push.FCMSender)),
		provideHistory,
		notification.NewService,
		wire.Bind(new(notification.Notifier), new(*notification.Service)),

		// Triggers
		provideDispatcher,
		trigger.NewHandler,

		// Application Layer
		provideRetentionJob,
		app.NewServer,
	)
	return nil, nil, nil
}
