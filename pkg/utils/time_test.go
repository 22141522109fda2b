package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStartMillis(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)

	cases := []struct {
		name   string
		now    time.Time
		offset int
		want   time.Time
	}{
		{
			name:   "morning in reference timezone",
			now:    time.Date(2026, 3, 2, 10, 0, 0, 0, jst),
			offset: 540,
			want:   time.Date(2026, 3, 2, 0, 0, 0, 0, jst),
		},
		{
			name:   "just after local midnight",
			now:    time.Date(2026, 3, 2, 0, 0, 1, 0, jst),
			offset: 540,
			want:   time.Date(2026, 3, 2, 0, 0, 0, 0, jst),
		},
		{
			name:   "just before local midnight",
			now:    time.Date(2026, 3, 1, 23, 59, 59, 0, jst),
			offset: 540,
			want:   time.Date(2026, 3, 1, 0, 0, 0, 0, jst),
		},
		{
			name:   "utc offset zero",
			now:    time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC),
			offset: 0,
			want:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want.UnixMilli(), DayStartMillis(c.now, c.offset))
		})
	}
}
