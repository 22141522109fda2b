package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	"handwash-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReminder(env *testEnv, at time.Time) *ReminderService {
	svc := NewReminderService(env.push, env.events, env.dispatcher, observability.NoopMetrics{}, 540, zap.NewNop())
	svc.now = func() time.Time { return at }
	env.events.now = svc.now
	return svc
}

func TestReminderRunNudgesUnwashed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-clean", "Smiths")
	env.joinFamily(t, "user-dirty", code)
	env.subscribe(t, "user-clean", familyID, "https://push.example.com/clean")
	env.subscribe(t, "user-dirty", familyID, "https://push.example.com/dirty")

	// 10:00 UTC+9 on March 2nd; the wash below lands the same morning.
	runAt := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	washAt := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC) // 08:30 local

	env.events.now = func() time.Time { return washAt }
	_, err := env.events.Append(ctx, "user-clean", familyID, AppendInput{})
	require.NoError(t, err)

	svc := newReminder(env, runAt)
	stats, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 1, Sent: 1, Skipped: 1}, stats)
	assert.Equal(t, []string{"https://push.example.com/dirty"}, env.dispatcher.sent)
}

func TestReminderRunSecondPassAfterWash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")
	env.subscribe(t, "user-owner", familyID, "https://push.example.com/owner")

	runAt := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	svc := newReminder(env, runAt)

	stats, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 1, Sent: 1}, stats)

	// The user washes; the next run the same day sends nothing.
	_, err = env.events.Append(ctx, "user-owner", familyID, AppendInput{})
	require.NoError(t, err)

	stats, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 1, Skipped: 1}, stats)
}

func TestReminderRunPrunesGone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")
	env.subscribe(t, "user-owner", familyID, "https://push.example.com/dead")
	env.dispatcher.outcomes["https://push.example.com/dead"] = ports.Gone

	svc := newReminder(env, time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC))

	stats, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 1, Failed: 1}, stats)

	// The endpoint is gone from the registry, so the next run is empty.
	stats, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{}, stats)
}

func TestReminderRunTransientFailureKeepsSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")
	env.subscribe(t, "user-owner", familyID, "https://push.example.com/flaky")
	env.dispatcher.outcomes["https://push.example.com/flaky"] = ports.TransientFailure

	svc := newReminder(env, time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC))

	stats, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 1, Failed: 1}, stats)

	subs, err := env.push.ListForUser(ctx, "user-owner")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

// failingQueryStore fails event-range queries for one family partition so a
// single family's exempt-set computation can be made to error.
type failingQueryStore struct {
	ports.KeyValueStore
	failPK string
}

func (s *failingQueryStore) Query(ctx context.Context, pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	if pk == s.failPK {
		return nil, errors.New("partition unavailable")
	}
	return s.KeyValueStore.Query(ctx, pk, q)
}

func TestReminderRunIsolatesFamilyFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyBroken, _ := env.createFamily(t, "user-broken", "Broken")
	familyFine, _ := env.createFamily(t, "user-fine", "Fine")
	env.subscribe(t, "user-broken", familyBroken, "https://push.example.com/broken")
	env.subscribe(t, "user-fine", familyFine, "https://push.example.com/fine")

	events := NewEventService(&failingQueryStore{
		KeyValueStore: env.store,
		failPK:        model.FamilyPK(familyBroken),
	}, zap.NewNop())

	runAt := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	svc := NewReminderService(env.push, events, env.dispatcher, observability.NoopMetrics{}, 540, zap.NewNop())
	svc.now = func() time.Time { return runAt }
	events.now = svc.now

	stats, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Families: 2, Sent: 1, Failed: 1}, stats)
	assert.Equal(t, []string{"https://push.example.com/fine"}, env.dispatcher.sent)
}
