// Package model defines the persistent records of the handwash tracker and
// the single-table key scheme they are stored under.
package model

// Role is a member's role within a family.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Entity type markers stored on each record.
const (
	EntityFamily        = "FAMILY"
	EntityInvite        = "INVITE"
	EntityMembership    = "MEMBERSHIP"
	EntityHandwashEvent = "HANDWASH_EVENT"
	EntityPushSub       = "PUSH_SUB"
	EntityUserProfile   = "USER_PROFILE"
)

// Family is the root record of a group. FamilyID is generated once and
// immutable; InviteHash is the digest of the family's invite code.
type Family struct {
	FamilyID   string `json:"familyId"`
	Name       string `json:"name"`
	CreatedAt  string `json:"createdAt"`
	CreatedBy  string `json:"createdBy"`
	InviteHash string `json:"-"`
}

// ToItem converts the family to its storage representation
func (f Family) ToItem() map[string]interface{} {
	return map[string]interface{}{
		"pk":         FamilyPK(f.FamilyID),
		"sk":         SKMeta,
		"entity":     EntityFamily,
		"familyId":   f.FamilyID,
		"name":       f.Name,
		"createdAt":  f.CreatedAt,
		"createdBy":  f.CreatedBy,
		"inviteHash": f.InviteHash,
	}
}

// FamilyFromItem rebuilds a family from its storage representation
func FamilyFromItem(item map[string]interface{}) Family {
	return Family{
		FamilyID:   itemString(item, "familyId"),
		Name:       itemString(item, "name"),
		CreatedAt:  itemString(item, "createdAt"),
		CreatedBy:  itemString(item, "createdBy"),
		InviteHash: itemString(item, "inviteHash"),
	}
}

// Membership links a user to a family. Exactly one exists per (user,
// family) pair; the GSI1 projection keys it by family for member listing.
// DisplayName is a denormalized copy of the user's profile name.
type Membership struct {
	UserSub     string `json:"sub"`
	FamilyID    string `json:"familyId"`
	Role        Role   `json:"role"`
	JoinedAt    string `json:"joinedAt"`
	DisplayName string `json:"displayName,omitempty"`
}

// IsOwner reports whether this membership carries the owner role
func (m Membership) IsOwner() bool {
	return m.Role == RoleOwner
}

// ToItem converts the membership to its storage representation. The GSI1
// keys are always populated here so member listing never needs a scan.
func (m Membership) ToItem() map[string]interface{} {
	item := map[string]interface{}{
		"pk":       UserPK(m.UserSub),
		"sk":       MembershipSK(m.FamilyID),
		"entity":   EntityMembership,
		"userSub":  m.UserSub,
		"familyId": m.FamilyID,
		"role":     string(m.Role),
		"joinedAt": m.JoinedAt,
		"gsi1pk":   FamilyPK(m.FamilyID),
		"gsi1sk":   MemberGSISK(m.UserSub),
	}
	if m.DisplayName != "" {
		item["displayName"] = m.DisplayName
	}
	return item
}

// MembershipFromItem rebuilds a membership from its storage representation
func MembershipFromItem(item map[string]interface{}) Membership {
	role := Role(itemString(item, "role"))
	if role == "" {
		role = RoleMember
	}
	return Membership{
		UserSub:     itemString(item, "userSub"),
		FamilyID:    itemString(item, "familyId"),
		Role:        role,
		JoinedAt:    itemString(item, "joinedAt"),
		DisplayName: itemString(item, "displayName"),
	}
}

// InviteMapping resolves an invite-code digest to a family. The clear-form
// code is never persisted.
type InviteMapping struct {
	InviteHash string
	FamilyID   string
	CreatedAt  string
}

// ToItem converts the invite mapping to its storage representation
func (i InviteMapping) ToItem() map[string]interface{} {
	return map[string]interface{}{
		"pk":        InvitePK(i.InviteHash),
		"sk":        SKMeta,
		"entity":    EntityInvite,
		"familyId":  i.FamilyID,
		"createdAt": i.CreatedAt,
	}
}
