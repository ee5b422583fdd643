package notification

import (
	"time"
)

// NotificationType is the "type" field of a history record. The mobile app
// switches on these values.
type NotificationType string

const (
	TypeChat                  NotificationType = "CHAT"
	TypePartnerRequest        NotificationType = "PARTNER_REQUEST"
	TypePartnerApprovalNeeded NotificationType = "PARTNER_APPROVAL_NEEDED"
	TypePartnerRejected       NotificationType = "PARTNER_REJECTED"
	TypeMoverRejected         NotificationType = "MOVER_REJECTED"
	TypeBookingAccepted       NotificationType = "BOOKING_ACCEPTED"
	TypeGeneral               NotificationType = "GENERAL"
)

// Notification is one (recipient, title, body, payload) tuple produced by a rule.
type Notification struct {
	RecipientID string
	Title       string
	Body        string
	Type        NotificationType
	// Extra holds correlating ids stored alongside the history record.
	Extra map[string]string
	// Data is the push payload. When nil, Extra is sent instead.
	Data map[string]string
}

// PushData returns the payload to attach to the device push.
func (n Notification) PushData() map[string]string {
	if n.Data != nil {
		return n.Data
	}
	return n.Extra
}

// Record represents one entry of a user's notification history as
// stored by the SQL backends. The Firestore backend writes the same fields
// as a document under users/{uid}/notifications.
type Record struct {
	ID        uint              `gorm:"primaryKey" json:"-"`
	UserID    string            `gorm:"type:varchar(128);not null;index:idx_notification_user_created" json:"-"`
	Title     string            `gorm:"type:text;not null" json:"title"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Type      NotificationType  `gorm:"type:varchar(64);not null" json:"type"`
	IsRead    bool              `gorm:"not null;default:false" json:"isRead"`
	Extra     map[string]string `gorm:"serializer:json" json:"extra,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index:idx_notification_user_created" json:"timestamp"`
}

// TableName specifies the table name for GORM.
func (Record) TableName() string {
	return "notifications"
}

// NewRecord builds the unread history entry for n.
func NewRecord(n Notification) *Record {
	return &Record{
		UserID:  n.RecipientID,
		Title:   n.Title,
		Message: n.Body,
		Type:    n.Type,
		IsRead:  false,
		Extra:   n.Extra,
	}
}
