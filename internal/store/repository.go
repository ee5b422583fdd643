package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"easymove_notifier/internal/domain"
)

// Collection names read by the notifier.
const (
	ChatsCollection    = "chats"
	UsersCollection    = "users"
	MovesCollection    = "moves"
	RequestsCollection = "requests"
)

var (
	// ErrNotFound is returned when the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrMalformed is returned when a document exists but cannot be decoded.
	ErrMalformed = errors.New("malformed document")
)

// IsMissing reports whether err is a missing-reference condition: the
// document is absent, malformed, or failed domain validation.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) || errors.Is(err, domain.ErrInvalidDocument)
}

// Repository is the read side of the document store.
type Repository interface {
	GetChat(ctx context.Context, chatID string) (*domain.Chat, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	// GetMove loads a booking from collection (moves or requests).
	GetMove(ctx context.Context, collection, moveID string) (*domain.Move, error)
}

// FirestoreRepository implements Repository on Cloud Firestore.
type FirestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a new Firestore-backed repository.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	if err := r.get(ctx, ChatsCollection, chatID, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *FirestoreRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.get(ctx, UsersCollection, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FirestoreRepository) GetMove(ctx context.Context, collection, moveID string) (*domain.Move, error) {
	var move domain.Move
	if err := r.get(ctx, collection, moveID, &move); err != nil {
		return nil, err
	}
	return &move, nil
}

func (r *FirestoreRepository) get(ctx context.Context, collection, id string, out interface{}) error {
	if id == "" {
		return fmt.Errorf("%w: %s with empty id", ErrNotFound, collection)
	}
	snap, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrMalformed, collection, id, err)
	}
	return nil
}
