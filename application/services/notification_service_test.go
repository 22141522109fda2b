package services

import (
	"context"
	"errors"
	"testing"

	"handwash-backend/application/ports"
	apperrors "handwash-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToUserOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	_, err := env.notifications.SendToUser(context.Background(), "user-member", familyID, "user-owner", "")
	assert.True(t, apperrors.IsForbidden(err))
}

func TestSendToUserSenderMustBeMember(t *testing.T) {
	env := newTestEnv(t)
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")

	_, err := env.notifications.SendToUser(context.Background(), "user-stranger", familyID, "user-owner", "")
	assert.True(t, apperrors.IsForbidden(err))
}

func TestSendToUserTargetMustBeMember(t *testing.T) {
	env := newTestEnv(t)
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")

	_, err := env.notifications.SendToUser(context.Background(), "user-owner", familyID, "user-stranger", "")
	assert.True(t, apperrors.IsForbidden(err))
}

func TestSendToUserNoSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	result, err := env.notifications.SendToUser(context.Background(), "user-owner", familyID, "user-member", "")
	require.NoError(t, err)
	assert.Equal(t, SendResult{}, result)
	assert.Zero(t, env.dispatcher.sendCount())
}

func TestSendToUserDefaultMessage(t *testing.T) {
	env := newTestEnv(t)
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/member")

	result, err := env.notifications.SendToUser(context.Background(), "user-owner", familyID, "user-member", "")
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 1}, result)
	require.Len(t, env.dispatcher.messages, 1)
	assert.Equal(t, DefaultNudgeMessage, env.dispatcher.messages[0].Body)
}

func TestSendToUserPrunesGoneEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/alive")
	env.subscribe(t, "user-member", familyID, "https://push.example.com/dead")
	env.dispatcher.outcomes["https://push.example.com/dead"] = ports.Gone

	result, err := env.notifications.SendToUser(ctx, "user-owner", familyID, "user-member", "go wash")
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 1, Failed: 1}, result)

	subs, err := env.push.ListForUser(ctx, "user-member")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.com/alive", subs[0].Endpoint)
}

func TestSendToUserReachesEverySubscription(t *testing.T) {
	env := newTestEnv(t)
	familyA, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	familyB, codeB := env.createFamily(t, "user-other", "Joneses")
	env.joinFamily(t, "user-member", codeB)
	env.subscribe(t, "user-member", familyA, "https://push.example.com/phone")
	env.subscribe(t, "user-member", familyB, "https://push.example.com/tablet")

	// Subscriptions registered while in another family still belong to the
	// target; a nudge goes to every device they subscribed on.
	result, err := env.notifications.SendToUser(context.Background(), "user-owner", familyA, "user-member", "")
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 2}, result)
	assert.Equal(t, 2, env.dispatcher.sendCount())
}

func TestSendToUserMalformedSubscriptionDoesNotAbort(t *testing.T) {
	env := newTestEnv(t)
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/broken")
	env.subscribe(t, "user-member", familyID, "https://push.example.com/good")
	env.dispatcher.errs["https://push.example.com/broken"] = errors.New("invalid p256dh key")

	result, err := env.notifications.SendToUser(context.Background(), "user-owner", familyID, "user-member", "")
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 1, Failed: 1}, result)
	assert.Equal(t, 2, env.dispatcher.sendCount())
}

func TestSendToUserTransientFailureDoesNotPrune(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/flaky")
	env.dispatcher.outcomes["https://push.example.com/flaky"] = ports.TransientFailure

	result, err := env.notifications.SendToUser(ctx, "user-owner", familyID, "user-member", "")
	require.NoError(t, err)
	assert.Equal(t, SendResult{Failed: 1}, result)

	subs, err := env.push.ListForUser(ctx, "user-member")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
