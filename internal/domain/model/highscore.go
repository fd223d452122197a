// Package model contains domain models passed between layers.
package model

import "time"

// HighScore is a single leaderboard record.
type HighScore struct {
	ID    int64     // store-assigned identity, 0 when never persisted
	Name  string    // player identifier, not unique
	Score int64     // higher is better
	When  time.Time // UTC time the score was recorded
}

// New returns a HighScore stamped with when, normalized to UTC.
func New(name string, score int64, when time.Time) HighScore {
	return HighScore{Name: name, Score: score, When: when.UTC()}
}

// Equal reports whether h and other share name and score.
// ID and When do not take part in equality.
func (h HighScore) Equal(other HighScore) bool {
	return h.Name == other.Name && h.Score == other.Score
}

// Compare orders records by score only: -1 if a scores lower than b,
// +1 if higher, 0 on a tie. Name, When and ID are ignored, so the
// relative order of tied records is unspecified.
func Compare(a, b HighScore) int {
	switch {
	case a.Score < b.Score:
		return -1
	case a.Score > b.Score:
		return 1
	default:
		return 0
	}
}

// Better reports whether a ranks strictly above b.
func Better(a, b HighScore) bool { return Compare(a, b) > 0 }
