package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// inviteAlphabet excludes characters that are easy to misread when the code
// is shared verbally or by hand (0/O, 1/I/L).
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const inviteCodeLen = 8

// NewInviteCode generates an 8-character human-readable invite code,
// rendered in grouped XXXX-XXXX form.
func NewInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	code := make([]byte, inviteCodeLen)
	for i, b := range buf {
		code[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(code[:4]) + "-" + string(code[4:]), nil
}

// NormalizeInviteCode canonicalizes user input to the grouped XXXX-XXXX
// form: whitespace and separators are dropped and letters uppercased, so
// "abcd efgh" and "ABCD-EFGH" hash identically.
func NormalizeInviteCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	raw := b.String()
	if len(raw) != inviteCodeLen {
		return raw
	}
	return raw[:4] + "-" + raw[4:]
}

// HashInviteCode returns the one-way digest under which the invite mapping
// is stored. The clear-form code never hits the table.
func HashInviteCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
