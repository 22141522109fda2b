package services

import (
	"context"
	"strings"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	apperrors "handwash-backend/pkg/errors"
	"handwash-backend/pkg/utils"

	"go.uber.org/zap"
)

// PushService is the per-user push-subscription registry, indexed both by
// owner and by family.
type PushService struct {
	store  ports.KeyValueStore
	logger *zap.Logger
}

// NewPushService creates a new push service
func NewPushService(store ports.KeyValueStore, logger *zap.Logger) *PushService {
	return &PushService{store: store, logger: logger}
}

// SubscriptionInput is the endpoint descriptor supplied by the client's
// push layer.
type SubscriptionInput struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Subscribe registers a delivery endpoint for the user within a family.
// Re-subscribing the same endpoint overwrites the prior record: the
// endpoint digest is the sort key, so the write is a natural upsert.
func (s *PushService) Subscribe(ctx context.Context, sub, familyID string, in SubscriptionInput, userAgent string) error {
	if strings.TrimSpace(in.Endpoint) == "" || in.P256dh == "" || in.Auth == "" {
		return apperrors.NewValidationError("subscription must include endpoint, p256dh and auth")
	}

	if _, err := requireMembership(ctx, s.store, sub, familyID); err != nil {
		return err
	}

	record := model.PushSubscription{
		UserSub:      sub,
		FamilyID:     familyID,
		EndpointHash: model.HashEndpoint(in.Endpoint),
		Endpoint:     in.Endpoint,
		P256dh:       in.P256dh,
		Auth:         in.Auth,
		UserAgent:    userAgent,
		CreatedAt:    utils.NowRFC3339(),
	}

	if err := s.store.Put(ctx, record.ToItem()); err != nil {
		return apperrors.NewDatabaseError("put subscription", err)
	}

	s.logger.Info("push subscription registered",
		zap.String("sub", sub),
		zap.String("familyId", familyID),
		zap.String("endpointHash", record.EndpointHash),
	)
	return nil
}

// ListForUser returns all of the user's subscriptions across families.
func (s *PushService) ListForUser(ctx context.Context, sub string) ([]model.PushSubscription, error) {
	items, err := s.store.Query(ctx, model.UserPK(sub), ports.RangeQuery{
		SortPrefix: model.PushSKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("list subscriptions", err)
	}
	return subscriptionsFromItems(items), nil
}

// ListForFamily returns all subscriptions scoped to a family via the
// secondary index.
func (s *PushService) ListForFamily(ctx context.Context, familyID string) ([]model.PushSubscription, error) {
	items, err := s.store.QueryIndex(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortPrefix: model.PushGSISKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("list family subscriptions", err)
	}
	return subscriptionsFromItems(items), nil
}

// Remove deletes one subscription by its endpoint digest. Removing an
// absent subscription is a no-op.
func (s *PushService) Remove(ctx context.Context, sub, endpointHash string) error {
	if err := s.store.Delete(ctx, model.UserPK(sub), model.PushSK(endpointHash)); err != nil {
		return apperrors.NewDatabaseError("delete subscription", err)
	}
	return nil
}

// AllByFamily enumerates every subscription in the registry, grouped by
// family. Only the reminder run calls this.
func (s *PushService) AllByFamily(ctx context.Context) (map[string][]model.PushSubscription, error) {
	items, err := s.store.ScanEntity(ctx, model.EntityPushSub)
	if err != nil {
		return nil, apperrors.NewDatabaseError("scan subscriptions", err)
	}

	byFamily := make(map[string][]model.PushSubscription)
	for _, item := range items {
		record := model.PushSubscriptionFromItem(item)
		byFamily[record.FamilyID] = append(byFamily[record.FamilyID], record)
	}
	return byFamily, nil
}

func subscriptionsFromItems(items []map[string]interface{}) []model.PushSubscription {
	subs := make([]model.PushSubscription, 0, len(items))
	for _, item := range items {
		subs = append(subs, model.PushSubscriptionFromItem(item))
	}
	return subs
}
