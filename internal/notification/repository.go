package notification

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"easymove_notifier/internal/store"
)

// NotificationsSubcollection is the per-user history subcollection.
const NotificationsSubcollection = "notifications"

// Repository appends records to a user's notification history. Records are
// never updated by the notifier.
type Repository interface {
	Create(ctx context.Context, record *Record) error
}

// FirestoreRepository writes history to users/{uid}/notifications/{autoId}.
type FirestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a new Firestore notification repository.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

// Create adds record under its user's history with a server-assigned timestamp.
func (r *FirestoreRepository) Create(ctx context.Context, record *Record) error {
	_, _, err := r.client.Collection(store.UsersCollection).Doc(record.UserID).
		Collection(NotificationsSubcollection).
		Add(ctx, firestoreDocument(record))
	if err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", record.UserID, err)
	}
	return nil
}

// firestoreDocument flattens a record into the document shape the app reads:
// correlating ids sit at the top level next to the fixed fields.
func firestoreDocument(record *Record) map[string]interface{} {
	doc := make(map[string]interface{}, len(record.Extra)+5)
	for k, v := range record.Extra {
		doc[k] = v
	}
	doc["title"] = record.Title
	doc["message"] = record.Message
	doc["timestamp"] = firestore.ServerTimestamp
	doc["isRead"] = record.IsRead
	doc["type"] = string(record.Type)
	return doc
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM notification repository.
func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate creates or updates the notifications table.
func (r *GORMRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate notifications table: %w", err)
	}
	return nil
}

// Create inserts a new notification into the database.
func (r *GORMRepository) Create(ctx context.Context, record *Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// DeleteBefore removes records created before cutoff and returns how many
// were deleted. The mirror never learns about reads, so age is the only
// criterion.
func (r *GORMRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// MirrorRepository writes every record to a primary backend and then copies
// it to a mirror. Only the primary error is returned; a mirror failure is
// logged here and otherwise ignored.
type MirrorRepository struct {
	primary Repository
	mirror  Repository
	logger  *zap.Logger
}

// NewMirrorRepository creates a repository that mirrors primary into mirror.
func NewMirrorRepository(primary, mirror Repository, logger *zap.Logger) *MirrorRepository {
	return &MirrorRepository{
		primary: primary,
		mirror:  mirror,
		logger:  logger.Named("history_mirror"),
	}
}

// Create writes record to the primary first. The mirror is attempted even
// when the primary failed.
func (r *MirrorRepository) Create(ctx context.Context, record *Record) error {
	err := r.primary.Create(ctx, record)
	if mirrorErr := r.mirror.Create(ctx, record); mirrorErr != nil {
		r.logger.Warn("Failed to mirror notification history",
			zap.String("user_id", record.UserID),
			zap.String("type", string(record.Type)),
			zap.Error(mirrorErr),
		)
	}
	return err
}
