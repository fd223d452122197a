// Package ranking implements the bounded in-memory leaderboard.
//
// A Board keeps at most Cap() records sorted best to worst. Admission is
// decided purely by score: a full board admits a score that is at least as
// good as its current worst, evicting that worst record. Ties are admitted,
// so the newest arrival displaces an equal-scoring older record.
//
// Board is not safe for concurrent use; callers serialize access.
package ranking

import (
	"slices"
	"time"

	model "github.com/okian/blast/internal/domain/model"
)

// Board is a capacity-bounded leaderboard sorted descending by score.
type Board struct {
	capacity int
	scores   []model.HighScore
	now      func() time.Time
}

// New returns an empty board that retains at most capacity records.
// A capacity of zero (or less) never retains anything.
func New(capacity int, opts ...Option) *Board {
	if capacity < 0 {
		capacity = 0
	}
	b := &Board{
		capacity: capacity,
		scores:   make([]model.HighScore, 0, capacity),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init builds a board from previously recorded scores.
//
// Only the first capacity records of the input are kept, and they are sorted
// afterwards. Init does not select the best capacity records: callers must
// pass records already limited to capacity or already sorted by score,
// otherwise the wrong subset is retained.
func Init(capacity int, records []model.HighScore, opts ...Option) *Board {
	b := New(capacity, opts...)
	n := min(len(records), b.capacity)
	b.scores = append(b.scores, records[:n]...)
	b.sort()
	return b
}

// Add records score for name, stamped with the board's clock.
// It returns false, leaving the board untouched, when the board is full and
// score is lower than the current worst.
func (b *Board) Add(name string, score int64) bool {
	if !b.Admits(score) {
		return false
	}
	_, _, added := b.Insert(model.New(name, score, b.now()))
	return added
}

// Admits reports whether Add would retain score.
func (b *Board) Admits(score int64) bool {
	if b.capacity == 0 {
		return false
	}
	if !b.Full() {
		return true
	}
	return score >= b.scores[len(b.scores)-1].Score
}

// Insert places an already stamped record on the board. When the board is
// full the previous worst record is evicted and returned.
func (b *Board) Insert(rec model.HighScore) (evicted model.HighScore, didEvict, added bool) {
	if !b.Admits(rec.Score) {
		return model.HighScore{}, false, false
	}
	if b.Full() {
		evicted = b.scores[len(b.scores)-1]
		b.scores = b.scores[:len(b.scores)-1]
		didEvict = true
	}
	b.scores = append(b.scores, rec)
	b.sort()
	return evicted, didEvict, true
}

// First returns the best record.
func (b *Board) First() (model.HighScore, bool) {
	if len(b.scores) == 0 {
		return model.HighScore{}, false
	}
	return b.scores[0], true
}

// Last returns the worst retained record.
func (b *Board) Last() (model.HighScore, bool) {
	if len(b.scores) == 0 {
		return model.HighScore{}, false
	}
	return b.scores[len(b.scores)-1], true
}

// All returns a copy of the board, best first.
func (b *Board) All() []model.HighScore {
	return slices.Clone(b.scores)
}

// Len returns the number of retained records.
func (b *Board) Len() int { return len(b.scores) }

// Cap returns the maximum number of retained records.
func (b *Board) Cap() int { return b.capacity }

// Full reports whether the board holds Cap() records.
func (b *Board) Full() bool { return len(b.scores) >= b.capacity }

// Now returns the current time from the board's clock in UTC.
func (b *Board) Now() time.Time { return b.now().UTC() }

func (b *Board) sort() {
	slices.SortStableFunc(b.scores, func(x, y model.HighScore) int {
		return model.Compare(y, x)
	})
}
