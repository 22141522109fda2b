package services

import (
	"context"
	"errors"
	"strings"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	apperrors "handwash-backend/pkg/errors"
	"handwash-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxDisplayNameLen = 30

// FamilyService owns Family, InviteMapping, Membership and UserProfile
// records: create/join/leave/delete, invite redemption, member listing and
// the profile write-through fan-out.
type FamilyService struct {
	store  ports.KeyValueStore
	logger *zap.Logger
}

// NewFamilyService creates a new family service
func NewFamilyService(store ports.KeyValueStore, logger *zap.Logger) *FamilyService {
	return &FamilyService{store: store, logger: logger}
}

// CreateFamilyResult is returned from CreateFamily. InviteCode is the only
// time the clear-form code leaves the service; it is never persisted.
type CreateFamilyResult struct {
	FamilyID   string
	Name       string
	InviteCode string
}

// FamilySummary is one entry of a user's family list.
type FamilySummary struct {
	FamilyID string `json:"familyId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// MemberList is the result of ListMembers.
type MemberList struct {
	IsOwner bool
	Members []model.Membership
}

// CreateFamily generates a family id and invite code, then writes the
// family, the invite mapping and the owner membership, each conditioned on
// non-existence. A precondition failure on any of the three aborts the
// request with Conflict: id collisions are vanishingly unlikely, so a hit
// signals a deeper problem and is not worth a retry loop.
func (s *FamilyService) CreateFamily(ctx context.Context, ownerSub, name string) (*CreateFamilyResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	familyID := uuid.New().String()
	inviteCode, err := model.NewInviteCode()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate invite code").WithCause(err)
	}
	inviteHash := model.HashInviteCode(inviteCode)
	now := utils.NowRFC3339()

	family := model.Family{
		FamilyID:   familyID,
		Name:       name,
		CreatedAt:  now,
		CreatedBy:  ownerSub,
		InviteHash: inviteHash,
	}
	invite := model.InviteMapping{
		InviteHash: inviteHash,
		FamilyID:   familyID,
		CreatedAt:  now,
	}
	membership := model.Membership{
		UserSub:  ownerSub,
		FamilyID: familyID,
		Role:     model.RoleOwner,
		JoinedAt: now,
	}
	if profile, err := s.GetProfile(ctx, ownerSub); err == nil && profile != nil {
		membership.DisplayName = profile.DisplayName
	}

	for _, item := range []map[string]interface{}{family.ToItem(), invite.ToItem(), membership.ToItem()} {
		if err := s.store.PutIfAbsent(ctx, item); err != nil {
			if errors.Is(err, ports.ErrConditionFailed) {
				return nil, apperrors.NewConflictError("family already exists")
			}
			return nil, apperrors.NewDatabaseError("create family", err)
		}
	}

	s.logger.Info("family created",
		zap.String("familyId", familyID),
		zap.String("createdBy", ownerSub),
	)

	return &CreateFamilyResult{FamilyID: familyID, Name: name, InviteCode: inviteCode}, nil
}

// JoinFamily redeems an invite code. Joins are not idempotent on purpose: a
// second join of the same family fails with Conflict so the client can tell
// "first join" from "already joined".
func (s *FamilyService) JoinFamily(ctx context.Context, sub, inviteCode string) (string, error) {
	code := model.NormalizeInviteCode(inviteCode)
	if code == "" {
		return "", apperrors.NewValidationError("inviteCode is required")
	}

	inviteItem, err := s.store.Get(ctx, model.InvitePK(model.HashInviteCode(code)), model.SKMeta)
	if err != nil {
		return "", apperrors.NewDatabaseError("resolve invite", err)
	}
	if inviteItem == nil {
		return "", apperrors.NewNotFoundError("invite code")
	}
	familyID, _ := inviteItem["familyId"].(string)

	membership := model.Membership{
		UserSub:  sub,
		FamilyID: familyID,
		Role:     model.RoleMember,
		JoinedAt: utils.NowRFC3339(),
	}
	if profile, err := s.GetProfile(ctx, sub); err == nil && profile != nil {
		membership.DisplayName = profile.DisplayName
	}

	if err := s.store.PutIfAbsent(ctx, membership.ToItem()); err != nil {
		if errors.Is(err, ports.ErrConditionFailed) {
			return "", apperrors.NewConflictError("already a member of this family")
		}
		return "", apperrors.NewDatabaseError("join family", err)
	}

	s.logger.Info("member joined family",
		zap.String("familyId", familyID),
		zap.String("sub", sub),
	)

	return familyID, nil
}

// LeaveFamily removes a non-owner membership along with the member's push
// subscriptions scoped to that family. An owner cannot leave; the family
// must be deleted first.
func (s *FamilyService) LeaveFamily(ctx context.Context, sub, familyID string) error {
	item, err := s.store.Get(ctx, model.UserPK(sub), model.MembershipSK(familyID))
	if err != nil {
		return apperrors.NewDatabaseError("get membership", err)
	}
	if item == nil {
		return apperrors.NewNotFoundError("membership")
	}
	if model.MembershipFromItem(item).IsOwner() {
		return apperrors.NewValidationError("owner cannot leave: delete the family or transfer ownership first")
	}

	if err := s.store.Delete(ctx, model.UserPK(sub), model.MembershipSK(familyID)); err != nil {
		return apperrors.NewDatabaseError("delete membership", err)
	}

	if err := s.deleteUserPushSubscriptions(ctx, sub, familyID); err != nil {
		return err
	}

	s.logger.Info("member left family",
		zap.String("familyId", familyID),
		zap.String("sub", sub),
	)
	return nil
}

// DeleteFamily removes the family and every dependent record: invite
// mapping, memberships, handwash events and push subscriptions. The sweep
// is not transactional; every step is idempotent so a failed delete can be
// retried safely.
func (s *FamilyService) DeleteFamily(ctx context.Context, ownerSub, familyID string) error {
	item, err := s.store.Get(ctx, model.UserPK(ownerSub), model.MembershipSK(familyID))
	if err != nil {
		return apperrors.NewDatabaseError("get membership", err)
	}
	if item == nil {
		return apperrors.NewNotFoundError("membership")
	}
	if !model.MembershipFromItem(item).IsOwner() {
		return apperrors.NewForbiddenError("only the owner can delete the family")
	}

	familyItem, err := s.store.Get(ctx, model.FamilyPK(familyID), model.SKMeta)
	if err != nil {
		return apperrors.NewDatabaseError("get family", err)
	}

	if err := s.store.Delete(ctx, model.FamilyPK(familyID), model.SKMeta); err != nil {
		return apperrors.NewDatabaseError("delete family", err)
	}

	if familyItem != nil {
		if inviteHash, _ := familyItem["inviteHash"].(string); inviteHash != "" {
			if err := s.store.Delete(ctx, model.InvitePK(inviteHash), model.SKMeta); err != nil {
				return apperrors.NewDatabaseError("delete invite", err)
			}
		}
	}

	// Memberships via the family-keyed index.
	members, err := s.store.QueryIndex(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortPrefix: model.MemberGSISKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return apperrors.NewDatabaseError("list members", err)
	}
	for _, m := range members {
		membership := model.MembershipFromItem(m)
		if err := s.store.Delete(ctx, model.UserPK(membership.UserSub), model.MembershipSK(familyID)); err != nil {
			return apperrors.NewDatabaseError("delete membership", err)
		}
	}

	// Events share the family partition.
	events, err := s.store.Query(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortPrefix: model.EventSKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return apperrors.NewDatabaseError("list events", err)
	}
	for _, e := range events {
		if sk, ok := e["sk"].(string); ok {
			if err := s.store.Delete(ctx, model.FamilyPK(familyID), sk); err != nil {
				return apperrors.NewDatabaseError("delete event", err)
			}
		}
	}

	// Push subscriptions via the family-keyed index.
	subs, err := s.store.QueryIndex(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortPrefix: model.PushGSISKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return apperrors.NewDatabaseError("list subscriptions", err)
	}
	for _, p := range subs {
		ps := model.PushSubscriptionFromItem(p)
		if err := s.store.Delete(ctx, model.UserPK(ps.UserSub), model.PushSK(ps.EndpointHash)); err != nil {
			return apperrors.NewDatabaseError("delete subscription", err)
		}
	}

	s.logger.Info("family deleted",
		zap.String("familyId", familyID),
		zap.String("deletedBy", ownerSub),
		zap.Int("memberships", len(members)),
		zap.Int("events", len(events)),
		zap.Int("subscriptions", len(subs)),
	)
	return nil
}

// ListFamilies returns the caller's memberships with family names resolved
// from the family records.
func (s *FamilyService) ListFamilies(ctx context.Context, sub string) ([]FamilySummary, error) {
	items, err := s.store.Query(ctx, model.UserPK(sub), ports.RangeQuery{
		SortPrefix: model.MembershipSKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("list memberships", err)
	}

	families := make([]FamilySummary, 0, len(items))
	for _, item := range items {
		m := model.MembershipFromItem(item)
		summary := FamilySummary{
			FamilyID: m.FamilyID,
			Name:     "(unknown)",
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
		familyItem, err := s.store.Get(ctx, model.FamilyPK(m.FamilyID), model.SKMeta)
		if err != nil {
			return nil, apperrors.NewDatabaseError("get family", err)
		}
		if familyItem != nil {
			summary.Name = model.FamilyFromItem(familyItem).Name
		}
		families = append(families, summary)
	}
	return families, nil
}

// ListMembers returns the family's members via the family-keyed index,
// deduplicated by sub, with display names falling back to the user profile
// when the membership cache is empty. The membership write path always
// populates the index keys, so no scan fallback exists.
func (s *FamilyService) ListMembers(ctx context.Context, requesterSub, familyID string) (*MemberList, error) {
	if _, err := requireMembership(ctx, s.store, requesterSub, familyID); err != nil {
		return nil, err
	}

	items, err := s.store.QueryIndex(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortPrefix: model.MemberGSISKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("list members", err)
	}

	seen := make(map[string]bool, len(items))
	result := &MemberList{Members: make([]model.Membership, 0, len(items))}
	for _, item := range items {
		m := model.MembershipFromItem(item)
		if seen[m.UserSub] {
			continue
		}
		seen[m.UserSub] = true

		if m.DisplayName == "" {
			if profile, err := s.GetProfile(ctx, m.UserSub); err == nil && profile != nil {
				m.DisplayName = profile.DisplayName
			}
		}
		if m.UserSub == requesterSub && m.IsOwner() {
			result.IsOwner = true
		}
		result.Members = append(result.Members, m)
	}
	return result, nil
}

// UpdateProfile writes the user profile and rewrites the display-name cache
// on every membership of the user. A failure mid-fan-out leaves some
// memberships stale; the profile record stays the source of truth, so the
// next update reconciles them.
func (s *FamilyService) UpdateProfile(ctx context.Context, sub, displayName string) (string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", apperrors.NewValidationError("displayName is required")
	}
	if len([]rune(displayName)) > maxDisplayNameLen {
		return "", apperrors.NewValidationError("displayName must be 30 characters or less")
	}

	profile := model.UserProfile{
		UserSub:     sub,
		DisplayName: displayName,
		UpdatedAt:   utils.NowRFC3339(),
	}
	if err := s.store.Put(ctx, profile.ToItem()); err != nil {
		return "", apperrors.NewDatabaseError("put profile", err)
	}

	memberships, err := s.store.Query(ctx, model.UserPK(sub), ports.RangeQuery{
		SortPrefix: model.MembershipSKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return "", apperrors.NewDatabaseError("list memberships", err)
	}
	for _, item := range memberships {
		m := model.MembershipFromItem(item)
		m.DisplayName = displayName
		if err := s.store.Put(ctx, m.ToItem()); err != nil {
			return "", apperrors.NewDatabaseError("update membership display name", err)
		}
	}

	s.logger.Info("profile updated",
		zap.String("sub", sub),
		zap.Int("memberships", len(memberships)),
	)
	return displayName, nil
}

// GetProfile returns the user's profile, or nil when none exists.
func (s *FamilyService) GetProfile(ctx context.Context, sub string) (*model.UserProfile, error) {
	item, err := s.store.Get(ctx, model.UserPK(sub), model.ProfileSK)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}
	if item == nil {
		return nil, nil
	}
	profile := model.UserProfileFromItem(item)
	return &profile, nil
}

// deleteUserPushSubscriptions removes the user's subscriptions scoped to
// one family.
func (s *FamilyService) deleteUserPushSubscriptions(ctx context.Context, sub, familyID string) error {
	items, err := s.store.Query(ctx, model.UserPK(sub), ports.RangeQuery{
		SortPrefix: model.PushSKPrefix(),
		Ascending:  true,
	})
	if err != nil {
		return apperrors.NewDatabaseError("list subscriptions", err)
	}
	for _, item := range items {
		ps := model.PushSubscriptionFromItem(item)
		if ps.FamilyID != familyID {
			continue
		}
		if err := s.store.Delete(ctx, model.UserPK(sub), model.PushSK(ps.EndpointHash)); err != nil {
			return apperrors.NewDatabaseError("delete subscription", err)
		}
	}
	return nil
}
