// Package services implements the application operations over the
// key-value store: family directory, event log, push registry,
// notification dispatch and the daily reminder run.
package services

import (
	"context"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	apperrors "handwash-backend/pkg/errors"
)

// requireMembership loads the caller's membership in the family, failing
// with Forbidden when none exists. Every family-scoped operation runs
// through this check before touching family data.
func requireMembership(ctx context.Context, store ports.KeyValueStore, sub, familyID string) (model.Membership, error) {
	item, err := store.Get(ctx, model.UserPK(sub), model.MembershipSK(familyID))
	if err != nil {
		return model.Membership{}, apperrors.NewDatabaseError("get membership", err)
	}
	if item == nil {
		return model.Membership{}, apperrors.NewForbiddenError("not a family member")
	}
	return model.MembershipFromItem(item), nil
}
