package domain

// Match request statuses as written by the mobile app.
const (
	MatchStatusPending         = "pending"
	MatchStatusWaitingForMover = "waiting_for_mover"
	MatchStatusApproved        = "approved"
	MatchStatusRejected        = "rejected"
)

// ChatMessage is a document under chats/{chatId}/messages.
type ChatMessage struct {
	SenderID string `mapstructure:"senderId" validate:"required"`
	Message  string `mapstructure:"message"`
	Text     string `mapstructure:"text"`
	Content  string `mapstructure:"content"`
}

// Body returns the first non-empty of message, text and content, or
// fallback when the message carries no text (an attachment).
func (m ChatMessage) Body(fallback string) string {
	for _, s := range []string{m.Message, m.Text, m.Content} {
		if s != "" {
			return s
		}
	}
	return fallback
}

// Chat is a document under chats/.
type Chat struct {
	UserIDs []string `firestore:"userIds"`
}

// OtherParticipant returns the first participant that is not senderID.
// It reports false when the chat has fewer than two participants or no
// distinct other participant exists. Group chats with more than two members
// resolve to the first match only.
func (c Chat) OtherParticipant(senderID string) (string, bool) {
	if len(c.UserIDs) < 2 {
		return "", false
	}
	for _, id := range c.UserIDs {
		if id != "" && id != senderID {
			return id, true
		}
	}
	return "", false
}

// User is a document under users/. Only the fields the notifier reads are mapped.
type User struct {
	Name     string `firestore:"name"`
	FCMToken string `firestore:"fcmToken"`
}

// MatchRequest is a document under match_requests/.
type MatchRequest struct {
	FromUserID   string `mapstructure:"fromUserId"`
	FromUserName string `mapstructure:"fromUserName"`
	ToUserID     string `mapstructure:"toUserId"`
	MoveID       string `mapstructure:"moveId"`
	Status       string `mapstructure:"status"`
}

// Move is a booking document under moves/ (or requests/ in the legacy flow).
// It is read both from the store and from trigger payloads, hence both tag sets.
type Move struct {
	MoverID    string `firestore:"moverId" mapstructure:"moverId"`
	CustomerID string `firestore:"customerId" mapstructure:"customerId"`
	Status     string `firestore:"status" mapstructure:"status"`
}
