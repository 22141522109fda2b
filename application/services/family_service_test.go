package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	apperrors "handwash-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.families.CreateFamily(ctx, "user-owner", "  Smiths  ")
	require.NoError(t, err)
	assert.NotEmpty(t, result.FamilyID)
	assert.Equal(t, "Smiths", result.Name)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z2-9]{4}-[A-Z2-9]{4}$`), result.InviteCode)

	families, err := env.families.ListFamilies(ctx, "user-owner")
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, result.FamilyID, families[0].FamilyID)
	assert.Equal(t, "Smiths", families[0].Name)
	assert.Equal(t, "owner", families[0].Role)
}

func TestCreateFamilyRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.families.CreateFamily(context.Background(), "user-owner", "   ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestJoinFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")

	// Input normalization: lowercase, stray spaces, missing dash.
	sloppy := strings.ToLower(strings.ReplaceAll(code, "-", " "))
	joinedID, err := env.families.JoinFamily(ctx, "user-member", sloppy)
	require.NoError(t, err)
	assert.Equal(t, familyID, joinedID)

	list, err := env.families.ListMembers(ctx, "user-owner", familyID)
	require.NoError(t, err)
	assert.True(t, list.IsOwner)
	assert.Len(t, list.Members, 2)
}

func TestJoinFamilyTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	_, err := env.families.JoinFamily(ctx, "user-member", code)
	assert.True(t, apperrors.IsConflict(err))

	// The rejected join leaves the membership list untouched.
	members, err := env.families.ListMembers(ctx, "user-owner", familyID)
	require.NoError(t, err)
	assert.Len(t, members.Members, 2)
}

func TestJoinFamilyUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	env.createFamily(t, "user-owner", "Smiths")

	_, err := env.families.JoinFamily(context.Background(), "user-member", "ZZZZ-ZZZZ")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLeaveFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/member")

	require.NoError(t, env.families.LeaveFamily(ctx, "user-member", familyID))

	families, err := env.families.ListFamilies(ctx, "user-member")
	require.NoError(t, err)
	assert.Empty(t, families)

	// The member's subscriptions in that family go with the membership.
	subs, err := env.push.ListForUser(ctx, "user-member")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestOwnerCannotLeave(t *testing.T) {
	env := newTestEnv(t)
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")

	err := env.families.LeaveFamily(context.Background(), "user-owner", familyID)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLeaveFamilyNotAMember(t *testing.T) {
	env := newTestEnv(t)
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")

	err := env.families.LeaveFamily(context.Background(), "user-stranger", familyID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteFamilyRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	err := env.families.DeleteFamily(context.Background(), "user-member", familyID)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestDeleteFamilyCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)
	env.subscribe(t, "user-member", familyID, "https://push.example.com/member")

	_, err := env.events.Append(ctx, "user-member", familyID, AppendInput{})
	require.NoError(t, err)

	require.NoError(t, env.families.DeleteFamily(ctx, "user-owner", familyID))

	for _, sub := range []string{"user-owner", "user-member"} {
		families, err := env.families.ListFamilies(ctx, sub)
		require.NoError(t, err)
		assert.Empty(t, families, sub)
	}

	subs, err := env.push.ListForUser(ctx, "user-member")
	require.NoError(t, err)
	assert.Empty(t, subs)

	// The invite mapping dies with the family.
	_, err = env.families.JoinFamily(ctx, "user-late", code)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListMembersRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	familyID, _ := env.createFamily(t, "user-owner", "Smiths")

	_, err := env.families.ListMembers(context.Background(), "user-stranger", familyID)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestUpdateProfileFansOutToMemberships(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	name, err := env.families.UpdateProfile(ctx, "user-member", "  Kai  ")
	require.NoError(t, err)
	assert.Equal(t, "Kai", name)

	list, err := env.families.ListMembers(ctx, "user-owner", familyID)
	require.NoError(t, err)
	var found bool
	for _, m := range list.Members {
		if m.UserSub == "user-member" {
			found = true
			assert.Equal(t, "Kai", m.DisplayName)
		}
	}
	assert.True(t, found)
}

func TestUpdateProfileRejectsLongName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.families.UpdateProfile(context.Background(), "user-member", strings.Repeat("x", 31))
	assert.True(t, apperrors.IsValidation(err))
}

func TestProfileNameDenormalizedOnJoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.families.UpdateProfile(ctx, "user-member", "Kai")
	require.NoError(t, err)

	familyID, code := env.createFamily(t, "user-owner", "Smiths")
	env.joinFamily(t, "user-member", code)

	list, err := env.families.ListMembers(ctx, "user-owner", familyID)
	require.NoError(t, err)
	for _, m := range list.Members {
		if m.UserSub == "user-member" {
			assert.Equal(t, "Kai", m.DisplayName)
		}
	}
}
