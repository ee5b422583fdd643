package main

import (
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"easymove_notifier/internal/config"
	"easymove_notifier/internal/firebase"
	"easymove_notifier/internal/jobs"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/platform/database"
	"easymove_notifier/internal/platform/logger"
	"easymove_notifier/internal/platform/metrics"
	"easymove_notifier/internal/push"
	"easymove_notifier/internal/rules"
	"easymove_notifier/internal/store"
	"easymove_notifier/internal/trigger"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

func provideFirebase(cfg *config.Config, logger *zap.Logger) (*firebase.FirebaseService, func(), error) {
	fb, err := firebase.NewFirebaseService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return fb, fb.Close, nil
}

func provideFirestore(fb *firebase.FirebaseService) *firestore.Client {
	return fb.Firestore()
}

func provideFCMSender(fb *firebase.FirebaseService, cfg *config.Config, logger *zap.Logger) *push.FCMSender {
	return push.NewFCMSender(fb.Messaging(), cfg, logger)
}

// provideHistoryDB opens the SQL history database. It yields a nil db for
// the Firestore backend.
func provideHistoryDB(cfg *config.Config) (*gorm.DB, func(), error) {
	if cfg.HistoryBackend == config.HistoryBackendFirestore {
		return nil, func() {}, nil
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db) }, nil
}

// provideHistory always writes history to Firestore, where the app reads it.
// A SQL backend is migrated on startup and receives a mirror of every record.
func provideHistory(cfg *config.Config, client *firestore.Client, db *gorm.DB, logger *zap.Logger) (notification.Repository, error) {
	primary := notification.NewFirestoreRepository(client)
	if db == nil {
		return primary, nil
	}
	mirror := notification.NewGORMRepository(db)
	if err := mirror.AutoMigrate(); err != nil {
		return nil, err
	}
	logger.Info("Notification history mirrored to SQL", zap.String("backend", cfg.HistoryBackend))
	return notification.NewMirrorRepository(primary, mirror, logger), nil
}

// provideRetentionJob prunes the SQL mirror only. It returns nil without one:
// Firestore history is owned by the app.
func provideRetentionJob(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *jobs.HistoryRetentionJob {
	if db == nil {
		return nil
	}
	retention := time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour
	return jobs.NewHistoryRetentionJob(notification.NewGORMRepository(db), cfg.HistoryRetentionSchedule, retention, logger)
}

func provideDispatcher(cfg *config.Config, st store.Repository, notifier notification.Notifier, m *metrics.Metrics, logger *zap.Logger) *trigger.Dispatcher {
	bindings := trigger.Instrument(rules.Bindings(cfg, st, notifier, logger), m.ObserveRule)
	return trigger.NewDispatcher(bindings, logger)
}
