package model

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInviteCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-HJ-KM-NP-Z2-9]{4}-[A-HJ-KM-NP-Z2-9]{4}$`)
	for i := 0; i < 50; i++ {
		code, err := NewInviteCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestNormalizeInviteCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ABCD-EFGH", "ABCD-EFGH"},
		{"abcd-efgh", "ABCD-EFGH"},
		{"abcd efgh", "ABCD-EFGH"},
		{" ABCDEFGH ", "ABCD-EFGH"},
		{"ab-cd-ef-gh", "ABCD-EFGH"},
		{"", ""},
		{"ABC", "ABC"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeInviteCode(c.in), "input %q", c.in)
	}
}

func TestHashInviteCode(t *testing.T) {
	a := HashInviteCode("ABCD-EFGH")
	b := HashInviteCode("ABCD-EFGH")
	c := HashInviteCode("ABCD-EFGJ")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	// Normalized variants of the same code hash identically.
	assert.Equal(t, a, HashInviteCode(NormalizeInviteCode("abcd efgh")))
}
