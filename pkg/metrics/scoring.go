package metrics

import "time"

// PassStats summarizes one recommendation scoring pass.
type PassStats struct {
	Candidates int
	Positive   int
	Returned   int
	Duration   time.Duration
}

// LogAttrs renders the stats as slog key/value pairs.
func (s PassStats) LogAttrs() []any {
	return []any{
		"candidates", s.Candidates,
		"positive", s.Positive,
		"returned", s.Returned,
		"truncated", s.Returned < s.Positive,
		"duration_ms", s.Duration.Milliseconds(),
	}
}
