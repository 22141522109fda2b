package model

// PushSubscription is one delivery target for a user, scoped to a family.
// The endpoint digest keys the record so re-subscribing the same endpoint
// overwrites rather than duplicates.
type PushSubscription struct {
	UserSub      string `json:"sub"`
	FamilyID     string `json:"familyId"`
	EndpointHash string `json:"endpointHash"`
	Endpoint     string `json:"endpoint"`
	P256dh       string `json:"-"`
	Auth         string `json:"-"`
	UserAgent    string `json:"userAgent,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

// ToItem converts the subscription to its storage representation. GSI1 keys
// are always written so family-scoped lookups never fall back to a scan.
func (s PushSubscription) ToItem() map[string]interface{} {
	item := map[string]interface{}{
		"pk":           UserPK(s.UserSub),
		"sk":           PushSK(s.EndpointHash),
		"entity":       EntityPushSub,
		"userSub":      s.UserSub,
		"familyId":     s.FamilyID,
		"endpointHash": s.EndpointHash,
		"endpoint":     s.Endpoint,
		"p256dh":       s.P256dh,
		"auth":         s.Auth,
		"createdAt":    s.CreatedAt,
		"gsi1pk":       FamilyPK(s.FamilyID),
		"gsi1sk":       PushGSISK(s.UserSub, s.EndpointHash),
	}
	if s.UserAgent != "" {
		item["userAgent"] = s.UserAgent
	}
	return item
}

// PushSubscriptionFromItem rebuilds a subscription from its storage representation
func PushSubscriptionFromItem(item map[string]interface{}) PushSubscription {
	return PushSubscription{
		UserSub:      itemString(item, "userSub"),
		FamilyID:     itemString(item, "familyId"),
		EndpointHash: itemString(item, "endpointHash"),
		Endpoint:     itemString(item, "endpoint"),
		P256dh:       itemString(item, "p256dh"),
		Auth:         itemString(item, "auth"),
		UserAgent:    itemString(item, "userAgent"),
		CreatedAt:    itemString(item, "createdAt"),
	}
}
