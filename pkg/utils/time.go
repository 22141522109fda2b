package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DayStartMillis returns the epoch-millisecond boundary of "today" in a
// fixed reference timezone expressed as minutes east of UTC. The reminder
// semantics are pinned to one timezone regardless of where the process runs.
func DayStartMillis(now time.Time, offsetMinutes int) int64 {
	const dayMs = 24 * 60 * 60 * 1000
	offsetMs := int64(offsetMinutes) * 60 * 1000
	localMs := now.UnixMilli() + offsetMs
	return (localMs/dayMs)*dayMs - offsetMs
}
