package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key prefixes of the single-table layout. Every record lives under a
// (pk, sk) pair; membership and push records are mirrored into GSI1 keyed
// by family for family-scoped lookup.
const (
	SKMeta = "META"

	prefixFamily = "FAMILY#"
	prefixInvite = "INVITE#"
	prefixUser   = "USER#"
	prefixEvent  = "EVENT#"
	prefixPush   = "PUSH#"
	prefixMember = "MEMBER#"

	// maxSortSuffix sorts after every event id, so an inclusive upper bound
	// covers all events within the boundary millisecond.
	maxSortSuffix = "\uffff"
)

// FamilyPK returns the partition key of a family's records
func FamilyPK(familyID string) string {
	return prefixFamily + familyID
}

// InvitePK returns the partition key of an invite mapping
func InvitePK(inviteHash string) string {
	return prefixInvite + inviteHash
}

// UserPK returns the partition key of a user's records
func UserPK(sub string) string {
	return prefixUser + sub
}

// MembershipSK returns the sort key of a membership under the user partition
func MembershipSK(familyID string) string {
	return prefixFamily + familyID
}

// MembershipSKPrefix matches all of a user's memberships
func MembershipSKPrefix() string {
	return prefixFamily
}

// MemberGSISK returns the GSI1 sort key of a membership under the family
func MemberGSISK(sub string) string {
	return prefixMember + sub
}

// MemberGSISKPrefix matches all members of a family in GSI1
func MemberGSISKPrefix() string {
	return prefixMember
}

// EventSKPrefix matches all events in a family partition
func EventSKPrefix() string {
	return prefixEvent
}

// PushGSISKPrefix matches all push subscriptions of a family in GSI1
func PushGSISKPrefix() string {
	return prefixUser
}

// EventSK builds the sort key of a handwash event. The timestamp is
// left-padded to a fixed 13-digit width so lexicographic order is
// chronological; the event id keeps same-millisecond writes unique.
func EventSK(atMs int64, eventID string) string {
	return prefixEvent + PadMillis(atMs) + "#" + eventID
}

// EventSKLowerBound returns the inclusive range start for events at or
// after the given millisecond.
func EventSKLowerBound(atMs int64) string {
	return prefixEvent + PadMillis(atMs) + "#"
}

// EventSKUpperBound returns the inclusive range end covering every event
// within the given millisecond.
func EventSKUpperBound(atMs int64) string {
	return prefixEvent + PadMillis(atMs) + "#" + maxSortSuffix
}

// PushSK returns the sort key of a push subscription under the user partition
func PushSK(endpointHash string) string {
	return prefixPush + endpointHash
}

// PushSKPrefix matches all of a user's push subscriptions
func PushSKPrefix() string {
	return prefixPush
}

// PushGSISK returns the GSI1 sort key of a push subscription under the family
func PushGSISK(sub, endpointHash string) string {
	return prefixUser + sub + "#" + prefixPush + endpointHash
}

// PadMillis zero-pads an epoch-millisecond timestamp to 13 digits
func PadMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%013d", ms)
}

// HashEndpoint returns the stable 32-hex-char digest of a push endpoint
// URL, used as the subscription's sort-key component.
func HashEndpoint(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:])[:32]
}

// SubFromMemberGSISK recovers the user sub from a membership GSI1 sort key
func SubFromMemberGSISK(gsi1sk string) string {
	return strings.TrimPrefix(gsi1sk, prefixMember)
}
