// Package service provides the durable scoreboard: a bounded ranking board
// kept in step with a persistent store across process restarts.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/blast/internal/adapters/repository"
	model "github.com/okian/blast/internal/domain/model"
	"github.com/okian/blast/internal/domain/ranking"
	"github.com/okian/blast/pkg/logger"
	"github.com/okian/blast/pkg/metrics"
)

// DefaultCapacity is the number of scores the game keeps.
const DefaultCapacity = 5

// Scoreboard is the leaderboard surface the game consumes.
type Scoreboard interface {
	// Add records score for who. It reports whether the score made the board.
	Add(ctx context.Context, who string, score int64) (bool, error)
	// First returns the best score, if any.
	First() (model.HighScore, bool)
	// Last returns the worst retained score, if any.
	Last() (model.HighScore, bool)
	// All returns every retained score, best first.
	All() []model.HighScore
	// Capacity returns the most scores the board keeps.
	Capacity() int
}

// Service is a Scoreboard backed by a repository.Store.
//
// After every successful call the store holds exactly the records on the
// board. Reads are served from memory only; the store is consulted once at
// construction. A single process owns the store; concurrent writers in
// other processes are not detected.
type Service struct {
	mu sync.Mutex

	board     *ranking.Board
	store     repository.Store
	ownsStore bool
	closed    bool

	clock     func() time.Time
	storeOpts []repository.Option
	logger    logger.Logger
}

var _ Scoreboard = (*Service)(nil)

func newService(opts []Option) *Service {
	s := &Service{
		clock:  time.Now,
		logger: logger.Default().Named("scoreboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New builds a scoreboard of the given capacity over an open store. The
// store is trimmed to the best capacity rows and those rows are loaded.
// The caller keeps ownership of store.
func New(ctx context.Context, store repository.Store, capacity int, opts ...Option) (*Service, error) {
	s := newService(opts)
	if err := s.load(ctx, store, capacity); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens (or creates) the SQLite store at path and builds a scoreboard
// over it. The returned Service owns the store and releases it on Close;
// on error the store is already released.
func Open(ctx context.Context, path string, capacity int, opts ...Option) (*Service, error) {
	s := newService(opts)

	storeOpts := append([]repository.Option{repository.WithLogger(s.logger.Named("store"))}, s.storeOpts...)
	store, err := repository.Open(ctx, path, storeOpts...)
	if err != nil {
		return nil, err
	}
	if err := s.load(ctx, store, capacity); err != nil {
		_ = store.Close()
		return nil, err
	}
	s.ownsStore = true
	return s, nil
}

func (s *Service) load(ctx context.Context, store repository.Store, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	trimmed, err := store.Trim(ctx, capacity)
	if err != nil {
		s.logger.Error(ctx, "failed to trim store", logger.Error(err))
		return fmt.Errorf("load scoreboard: %w", err)
	}

	rows, err := store.Top(ctx, capacity)
	if err != nil {
		s.logger.Error(ctx, "failed to read store", logger.Error(err))
		return fmt.Errorf("load scoreboard: %w", err)
	}

	s.store = store
	s.board = ranking.Init(capacity, rows, ranking.WithClock(s.clock))
	metrics.UpdateBoard(s.board.Len(), s.board.Cap())

	s.logger.Info(ctx, "scoreboard loaded",
		logger.Int("capacity", capacity),
		logger.Int("records", s.board.Len()),
		logger.Int64("trimmed", trimmed),
	)
	return nil
}

// Add implements Scoreboard.Add.
//
// The store is updated first, in one transaction that deletes the evicted
// row by ID and inserts the new one. The board only changes once that
// transaction has committed, so a failed Add leaves board and store as
// they were.
func (s *Service) Add(ctx context.Context, who string, score int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	if !s.board.Admits(score) {
		metrics.RecordScoreRejected()
		s.logger.Debug(ctx, "score did not make the board", logger.String("name", who), logger.Int64("score", score))
		return false, nil
	}

	rec := model.New(who, score, s.board.Now())

	var evictID int64
	if s.board.Full() {
		worst, _ := s.board.Last()
		evictID = worst.ID
	}

	id, err := s.store.Replace(ctx, evictID, rec)
	if err != nil {
		s.logger.Error(ctx, "failed to persist score",
			logger.String("name", who),
			logger.Int64("score", score),
			logger.Error(err),
		)
		return false, fmt.Errorf("add score for %q: %w", who, err)
	}
	rec.ID = id

	evicted, didEvict, _ := s.board.Insert(rec)

	metrics.RecordScoreAdmitted()
	fields := []logger.Field{logger.String("name", who), logger.Int64("score", score), logger.Int64("id", id)}
	if didEvict {
		metrics.RecordEviction()
		fields = append(fields, logger.String("evicted", evicted.Name), logger.Int64("evictedScore", evicted.Score))
	}
	metrics.UpdateBoard(s.board.Len(), s.board.Cap())
	s.logger.Info(ctx, "score added", fields...)

	return true, nil
}

// First implements Scoreboard.First.
func (s *Service) First() (model.HighScore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.First()
}

// Last implements Scoreboard.Last.
func (s *Service) Last() (model.HighScore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Last()
}

// All implements Scoreboard.All.
func (s *Service) All() []model.HighScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.All()
}

// Capacity implements Scoreboard.Capacity.
func (s *Service) Capacity() int {
	return s.board.Cap()
}

// Close releases the store if the Service opened it. Further Adds fail
// with ErrClosed; reads keep serving the last board.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsStore {
		return s.store.Close()
	}
	return nil
}
