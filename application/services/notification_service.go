package services

import (
	"context"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	apperrors "handwash-backend/pkg/errors"

	"go.uber.org/zap"
)

// DefaultNudgeMessage is the body used when an owner sends a nudge without
// custom text.
const DefaultNudgeMessage = "Time to wash your hands!"

// nudgeURL is where the client navigates when the notification is tapped.
const nudgeURL = "/wash/"

// NotificationService sends owner-initiated push nudges to a family member
// and prunes endpoints the push service reports as permanently gone.
type NotificationService struct {
	store      ports.KeyValueStore
	push       *PushService
	dispatcher ports.PushDispatcher
	logger     *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	store ports.KeyValueStore,
	push *PushService,
	dispatcher ports.PushDispatcher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		store:      store,
		push:       push,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendResult reports the per-subscription outcomes of one nudge.
type SendResult struct {
	Sent   int
	Failed int
}

// SendToUser delivers a push message to every subscription of the target
// member. Only a family owner may send; the target must belong to the same
// family. Zero sends with no error is a valid outcome meaning the target
// has no active subscription.
func (s *NotificationService) SendToUser(ctx context.Context, senderSub, familyID, targetSub, message string) (SendResult, error) {
	sender, err := requireMembership(ctx, s.store, senderSub, familyID)
	if err != nil {
		return SendResult{}, err
	}
	if !sender.IsOwner() {
		return SendResult{}, apperrors.NewForbiddenError("only the owner can send notifications")
	}
	if _, err := requireMembership(ctx, s.store, targetSub, familyID); err != nil {
		return SendResult{}, apperrors.NewForbiddenError("target is not a family member")
	}

	if message == "" {
		message = DefaultNudgeMessage
	}

	subs, err := s.push.ListForUser(ctx, targetSub)
	if err != nil {
		return SendResult{}, err
	}

	msg := ports.PushMessage{
		Title: "🧼 Handwash reminder",
		Body:  message,
		URL:   nudgeURL,
	}

	var result SendResult
	for _, sub := range subs {
		outcome, err := s.dispatcher.Send(ctx, sub, msg)
		if err != nil {
			// A malformed stored subscription fails just that delivery;
			// the rest of the target's endpoints still get the nudge.
			result.Failed++
			s.logger.Error("push delivery rejected",
				zap.Error(err),
				zap.String("sub", sub.UserSub),
				zap.String("endpointHash", sub.EndpointHash),
			)
			continue
		}
		switch outcome {
		case ports.Delivered:
			result.Sent++
		case ports.Gone:
			result.Failed++
			s.pruneSubscription(ctx, sub)
		default:
			result.Failed++
		}
	}

	s.logger.Info("nudge dispatched",
		zap.String("familyId", familyID),
		zap.String("targetSub", targetSub),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// pruneSubscription removes a permanently-gone endpoint. Best effort: a
// failed prune is logged and retried naturally on the next Gone outcome.
func (s *NotificationService) pruneSubscription(ctx context.Context, sub model.PushSubscription) {
	if err := s.push.Remove(ctx, sub.UserSub, sub.EndpointHash); err != nil {
		s.logger.Error("failed to prune expired subscription",
			zap.Error(err),
			zap.String("sub", sub.UserSub),
			zap.String("endpointHash", sub.EndpointHash),
		)
		return
	}
	s.logger.Info("pruned expired subscription",
		zap.String("sub", sub.UserSub),
		zap.String("endpointHash", sub.EndpointHash),
	)
}
