package simulate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/blast/internal/app"
	"github.com/okian/blast/pkg/logger"
)

// Run generates plays from cfg, submits them to board concurrently and
// verifies the resulting board.
func Run(ctx context.Context, board service.Scoreboard, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Default().Named("simulate")
	start := time.Now()

	log.Info(ctx, "starting simulation",
		logger.Int("games", cfg.Games),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
	)

	before := board.All()
	plays := Generate(cfg)
	stats := Stats{Generated: len(plays)}

	ok := submit(ctx, board, plays, cfg.Workers, &stats)
	stats.Duration = time.Since(start)

	log.Info(ctx, "simulation finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("admitted", stats.Admitted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
	)

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	accepted := make([]int64, 0, len(before)+len(plays))
	for _, h := range before {
		accepted = append(accepted, h.Score)
	}
	for i, p := range plays {
		if ok[i] {
			accepted = append(accepted, p.Score)
		}
	}
	if err := verify(board, accepted); err != nil {
		log.Error(ctx, "board does not match submitted scores", logger.Error(err))
		return stats, err
	}
	return stats, nil
}

// submit fans plays out to workers. ok[i] reports whether play i reached
// the board without a store error, whether or not it was admitted.
func submit(ctx context.Context, board service.Scoreboard, plays []Play, workers int, stats *Stats) []bool {
	var submitted, admitted, rejected, failed int64
	ok := make([]bool, len(plays))

	idx := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				if ctx.Err() != nil {
					continue
				}
				atomic.AddInt64(&submitted, 1)
				made, err := board.Add(ctx, plays[i].Name, plays[i].Score)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case made:
					ok[i] = true
					atomic.AddInt64(&admitted, 1)
				default:
					ok[i] = true
					atomic.AddInt64(&rejected, 1)
				}
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range plays {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted)
	stats.Admitted = int(admitted)
	stats.Rejected = int(rejected)
	stats.Failed = int(failed)
	return ok
}

// String renders stats on one line.
func (s Stats) String() string {
	return fmt.Sprintf("%d games, %d high scores, %d rejected, %d failed in %s",
		s.Submitted, s.Admitted, s.Rejected, s.Failed, s.Duration.Round(time.Millisecond))
}
