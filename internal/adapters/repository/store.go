// Package repository defines the durable high-score store and its SQLite
// implementation.
package repository

import (
	"context"

	model "github.com/okian/blast/internal/domain/model"
)

// Store provides durable access to leaderboard rows.
type Store interface {
	// Trim deletes every row outside the best keep rows by score and
	// returns the number of rows removed. Ties are broken by ascending ID,
	// matching Top.
	Trim(ctx context.Context, keep int) (int64, error)

	// Top returns up to n rows ordered by score desc, ID asc.
	Top(ctx context.Context, n int) ([]model.HighScore, error)

	// Replace atomically deletes the row identified by evictID (skipped
	// when evictID is 0) and inserts rec, returning the new row's ID.
	// On error nothing is changed.
	Replace(ctx context.Context, evictID int64, rec model.HighScore) (int64, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying handle.
	Close() error
}
