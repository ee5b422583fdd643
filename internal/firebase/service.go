package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"easymove_notifier/internal/config"
)

// FirebaseService owns the process-wide Firebase Admin app and the clients
// derived from it. It is built once at startup and handed to the components
// that need it.
type FirebaseService struct {
	app       *firebase.App
	firestore *firestore.Client
	messaging *messaging.Client
	logger    *zap.Logger
}

// NewFirebaseService initializes the Firebase Admin SDK. With no service
// account key configured the SDK falls back to Application Default Credentials.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.FirebaseServiceAccountKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(filepath.Clean(cfg.FirebaseServiceAccountKeyPath)))
	}

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	fcm, err := app.Messaging(ctx)
	if err != nil {
		fs.Close()
		logger.Error("Failed to get FCM client", zap.Error(err))
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &FirebaseService{
		app:       app,
		firestore: fs,
		messaging: fcm,
		logger:    logger,
	}, nil
}

// Firestore returns the shared Firestore client.
func (s *FirebaseService) Firestore() *firestore.Client {
	return s.firestore
}

// Messaging returns the shared FCM client.
func (s *FirebaseService) Messaging() *messaging.Client {
	return s.messaging
}

// Close releases the Firestore connection.
func (s *FirebaseService) Close() {
	if s == nil || s.firestore == nil {
		return
	}
	if err := s.firestore.Close(); err != nil {
		s.logger.Warn("Closing Firestore client failed", zap.Error(err))
	}
}
