package simulate

import (
	"cmp"
	"fmt"
	"slices"

	service "github.com/okian/blast/internal/app"
)

// verify checks that board holds exactly the best scores among accepted,
// best first.
func verify(board service.Scoreboard, accepted []int64) error {
	got := board.All()

	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			return fmt.Errorf("%w: entry %d (%d) outranks entry %d (%d)",
				ErrVerification, i, got[i].Score, i-1, got[i-1].Score)
		}
	}

	want := slices.Clone(accepted)
	slices.SortFunc(want, func(a, b int64) int { return cmp.Compare(b, a) })
	if n := board.Capacity(); len(want) > n {
		want = want[:n]
	}

	if len(got) != len(want) {
		return fmt.Errorf("%w: board holds %d scores, want %d", ErrVerification, len(got), len(want))
	}
	for i := range want {
		if got[i].Score != want[i] {
			return fmt.Errorf("%w: rank %d has score %d, want %d", ErrVerification, i+1, got[i].Score, want[i])
		}
	}
	return nil
}
