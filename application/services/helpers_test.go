package services

import (
	"context"
	"sync"
	"testing"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	"handwash-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDispatcher records every delivery and returns a configured outcome
// or error per endpoint, defaulting to Delivered.
type fakeDispatcher struct {
	mu       sync.Mutex
	outcomes map[string]ports.DeliveryOutcome
	errs     map[string]error
	sent     []string
	messages []ports.PushMessage
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		outcomes: make(map[string]ports.DeliveryOutcome),
		errs:     make(map[string]error),
	}
}

func (d *fakeDispatcher) Send(ctx context.Context, sub model.PushSubscription, msg ports.PushMessage) (ports.DeliveryOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sub.Endpoint)
	d.messages = append(d.messages, msg)
	if err, ok := d.errs[sub.Endpoint]; ok {
		return 0, err
	}
	if outcome, ok := d.outcomes[sub.Endpoint]; ok {
		return outcome, nil
	}
	return ports.Delivered, nil
}

func (d *fakeDispatcher) sendCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

// testEnv bundles the services under test over one shared in-memory store.
type testEnv struct {
	store         *memory.Store
	families      *FamilyService
	events        *EventService
	push          *PushService
	notifications *NotificationService
	dispatcher    *fakeDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()
	push := NewPushService(store, logger)
	dispatcher := newFakeDispatcher()
	return &testEnv{
		store:         store,
		families:      NewFamilyService(store, logger),
		events:        NewEventService(store, logger),
		push:          push,
		notifications: NewNotificationService(store, push, dispatcher, logger),
		dispatcher:    dispatcher,
	}
}

// createFamily creates a family owned by ownerSub and returns its id and
// clear-form invite code.
func (e *testEnv) createFamily(t *testing.T, ownerSub, name string) (string, string) {
	t.Helper()
	result, err := e.families.CreateFamily(context.Background(), ownerSub, name)
	require.NoError(t, err)
	return result.FamilyID, result.InviteCode
}

// joinFamily redeems the invite code for sub.
func (e *testEnv) joinFamily(t *testing.T, sub, inviteCode string) string {
	t.Helper()
	familyID, err := e.families.JoinFamily(context.Background(), sub, inviteCode)
	require.NoError(t, err)
	return familyID
}

// subscribe registers a push endpoint for sub within the family.
func (e *testEnv) subscribe(t *testing.T, sub, familyID, endpoint string) {
	t.Helper()
	err := e.push.Subscribe(context.Background(), sub, familyID, SubscriptionInput{
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}, "test-agent")
	require.NoError(t, err)
}
