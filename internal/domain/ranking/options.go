package ranking

import "time"

// Option applies a configuration option to a Board.
type Option func(*Board)

// WithClock sets the time source used to stamp admitted records.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}
