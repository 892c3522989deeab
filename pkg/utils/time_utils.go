package utils

import "time"

// NowUnixSeconds is the unit every int64 timestamp column is stored in.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds converts a stored timestamp to UTC. Zero and negative
// values give the zero time so callers can omit them.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

// FromUnixSecondsPtr is FromUnixSeconds for nullable columns.
func FromUnixSecondsPtr(t *int64) *time.Time {
	if t == nil || *t <= 0 {
		return nil
	}
	v := FromUnixSeconds(*t)
	return &v
}
