package model

// UserProfile is the source of truth for a user's display name. The copy on
// each membership record is a cache rewritten on every profile update.
type UserProfile struct {
	UserSub     string `json:"sub"`
	DisplayName string `json:"displayName"`
	UpdatedAt   string `json:"updatedAt"`
}

// ProfileSK is the sort key of the profile record under the user partition.
const ProfileSK = "PROFILE"

// ToItem converts the profile to its storage representation
func (p UserProfile) ToItem() map[string]interface{} {
	return map[string]interface{}{
		"pk":          UserPK(p.UserSub),
		"sk":          ProfileSK,
		"entity":      EntityUserProfile,
		"userSub":     p.UserSub,
		"displayName": p.DisplayName,
		"updatedAt":   p.UpdatedAt,
	}
}

// UserProfileFromItem rebuilds a profile from its storage representation
func UserProfileFromItem(item map[string]interface{}) UserProfile {
	return UserProfile{
		UserSub:     itemString(item, "userSub"),
		DisplayName: itemString(item, "displayName"),
		UpdatedAt:   itemString(item, "updatedAt"),
	}
}
