package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// UnixToUTC converts an epoch-seconds value to UTC, returning nil for zero.
func UnixToUTC(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	ts := time.Unix(sec, 0).UTC()
	return &ts
}
