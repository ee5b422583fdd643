package rules

import (
	"context"
	"fmt"
	"testing"

	"easymove_notifier/internal/domain"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/push"
	"easymove_notifier/internal/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStore is a mock type for store.Repository
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) GetMove(ctx context.Context, collection, moveID string) (*domain.Move, error) {
	args := m.Called(ctx, collection, moveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Move), args.Error(1)
}

// MockNotifier is a mock type for notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n notification.Notification) {
	m.Called(ctx, n)
}

// sent returns every notification passed to Notify.
func (m *MockNotifier) sent() []notification.Notification {
	var out []notification.Notification
	for _, call := range m.Calls {
		if call.Method == "Notify" {
			out = append(out, call.Arguments.Get(1).(notification.Notification))
		}
	}
	return out
}

func newMockNotifier() *MockNotifier {
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, mock.Anything).Return()
	return n
}

// MockHistory is a mock type for notification.Repository
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Create(ctx context.Context, record *notification.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistory) records() []*notification.Record {
	var out []*notification.Record
	for _, call := range m.Calls {
		if call.Method == "Create" {
			out = append(out, call.Arguments.Get(1).(*notification.Record))
		}
	}
	return out
}

// MockSender is a mock type for push.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg push.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// dualWrite wires a real notification.Service over mocked collaborators so
// end-to-end tests observe history records and pushes.
type dualWrite struct {
	store   *MockStore
	history *MockHistory
	sender  *MockSender
	service *notification.Service
}

func newDualWrite(t *testing.T) *dualWrite {
	t.Helper()
	dw := &dualWrite{
		store:   new(MockStore),
		history: new(MockHistory),
		sender:  new(MockSender),
	}
	dw.service = notification.NewService(dw.history, dw.store, dw.sender, zap.NewNop())
	return dw
}

func notFound(path string) error {
	return fmt.Errorf("%w: %s", store.ErrNotFound, path)
}

func requireSingle(t *testing.T, got []notification.Notification) notification.Notification {
	t.Helper()
	require.Len(t, got, 1)
	return got[0]
}
