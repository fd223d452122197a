package simulate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/okian/blast/internal/adapters/repository"
	service "github.com/okian/blast/internal/app"
	model "github.com/okian/blast/internal/domain/model"
	"github.com/okian/blast/internal/simulate"
)

func newBoard(t *testing.T, capacity int) *service.Service {
	t.Helper()
	ctx := context.Background()
	store, err := repository.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := service.New(ctx, store, capacity)
	require.NoError(t, err)
	return svc
}

func TestGenerate_IsDeterministicPerSeed(t *testing.T) {
	cfg := simulate.Config{Games: 50, Players: 4, MaxScore: 20, Seed: 7}

	a := simulate.Generate(cfg)
	b := simulate.Generate(cfg)
	require.Len(t, a, 50)
	require.Empty(t, cmp.Diff(a, b))

	names := map[string]struct{}{}
	for _, p := range a {
		require.GreaterOrEqual(t, p.Score, int64(0))
		require.LessOrEqual(t, p.Score, int64(20))
		names[p.Name] = struct{}{}
	}
	require.LessOrEqual(t, len(names), 4)
}

func TestGenerate_Defaults(t *testing.T) {
	plays := simulate.Generate(simulate.Config{Seed: 1})
	require.Len(t, plays, simulate.DefaultGames)
}

func TestRun_BoardHoldsBestScores(t *testing.T) {
	svc := newBoard(t, 5)

	stats, err := simulate.Run(context.Background(), svc, simulate.Config{Games: 200, Workers: 8, Seed: 42})
	require.NoError(t, err)
	require.Equal(t, 200, stats.Generated)
	require.Equal(t, 200, stats.Submitted)
	require.Zero(t, stats.Failed)
	require.Equal(t, stats.Submitted, stats.Admitted+stats.Rejected)
	require.Len(t, svc.All(), 5)
	require.Contains(t, stats.String(), "200 games")
}

func TestRun_CountsExistingBoard(t *testing.T) {
	svc := newBoard(t, 3)
	ctx := context.Background()
	for _, s := range []int64{5_000, 4_000} {
		_, err := svc.Add(ctx, "champion", s)
		require.NoError(t, err)
	}

	_, err := simulate.Run(ctx, svc, simulate.Config{Games: 30, MaxScore: 100, Seed: 3})
	require.NoError(t, err)

	first, ok := svc.First()
	require.True(t, ok)
	require.Equal(t, int64(5_000), first.Score)
}

// lyingBoard drops every score it claims to admit.
type lyingBoard struct{ *service.Service }

func (lyingBoard) Add(context.Context, string, int64) (bool, error) { return true, nil }
func (lyingBoard) All() []model.HighScore                          { return nil }

func TestRun_DetectsMismatch(t *testing.T) {
	board := lyingBoard{newBoard(t, 5)}

	_, err := simulate.Run(context.Background(), board, simulate.Config{Games: 10, Seed: 1})
	require.True(t, errors.Is(err, simulate.ErrVerification))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := simulate.Run(ctx, newBoard(t, 5), simulate.Config{Games: 10, Seed: 1})
	require.ErrorIs(t, err, context.Canceled)
}
