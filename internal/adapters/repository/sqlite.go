package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	model "github.com/okian/blast/internal/domain/model"
	"github.com/okian/blast/pkg/logger"
	"github.com/okian/blast/pkg/metrics"
)

//go:embed schema.sql
var schema string

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

const (
	defaultBusyTimeout = 5 * time.Second
	dirPermission      = 0o755
)

const (
	trimQuery = `DELETE FROM scoreboard WHERE id NOT IN (
		SELECT id FROM scoreboard ORDER BY score DESC, id ASC LIMIT ?
	)`
	topQuery    = `SELECT id, name, score, "when" FROM scoreboard ORDER BY score DESC, id ASC LIMIT ?`
	deleteQuery = `DELETE FROM scoreboard WHERE id = ?`
	insertQuery = `INSERT INTO scoreboard (name, score, "when") VALUES (?, ?, ?)`
	countQuery  = `SELECT COUNT(*) FROM scoreboard`
)

// SQLiteStore is a Store backed by a single SQLite table.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
	logger      logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

func newSQLiteStore(opts []Option) *SQLiteStore {
	s := &SQLiteStore{
		busyTimeout: defaultBusyTimeout,
		logger:      logger.Default().Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens or creates the SQLite database at path and ensures the schema
// exists. Passing MemoryPath opens a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (s *SQLiteStore, err error) {
	defer observe(metrics.OpOpen, time.Now(), &err)

	s = newSQLiteStore(opts)
	timeoutMs := s.busyTimeout.Milliseconds()

	var dsn string
	switch path {
	case "":
		return nil, fmt.Errorf("%w: empty path", ErrStoreUnavailable)
	case MemoryPath:
		// Named shared-cache database so every pooled connection sees the
		// same data; the uuid keeps separate stores apart.
		dsn = fmt.Sprintf("file:blast-%s?mode=memory&cache=shared&_pragma=busy_timeout(%d)", uuid.NewString(), timeoutMs)
	default:
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, dirPermission); err != nil {
				return nil, fmt.Errorf("%w: create %s: %w", ErrStoreUnavailable, dir, err)
			}
		}
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, timeoutMs)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, path, err)
	}

	s.db = db
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Debug(ctx, "store opened", logger.String("path", path))
	return s, nil
}

// OpenInMemory opens a private in-memory store.
func OpenInMemory(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	return Open(ctx, MemoryPath, opts...)
}

// NewSQLiteStore wraps an already open database and ensures the schema.
// The store takes ownership of db; Close closes it.
func NewSQLiteStore(ctx context.Context, db *sql.DB, opts ...Option) (*SQLiteStore, error) {
	s := newSQLiteStore(opts)
	s.db = db
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) (err error) {
	defer observe(metrics.OpSchema, time.Now(), &err)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

// Trim implements Store.Trim.
func (s *SQLiteStore) Trim(ctx context.Context, keep int) (removed int64, err error) {
	defer observe(metrics.OpTrim, time.Now(), &err)

	if keep < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, keep)
	}

	res, err := s.db.ExecContext(ctx, trimQuery, keep)
	if err != nil {
		return 0, fmt.Errorf("%w: trim: %w", ErrQuery, err)
	}
	removed, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: trim: %w", ErrQuery, err)
	}

	metrics.RecordStoreTrimmed(removed)
	if removed > 0 {
		s.logger.Info(ctx, "trimmed store", logger.Int64("removed", removed), logger.Int("keep", keep))
	}
	return removed, nil
}

// Top implements Store.Top.
func (s *SQLiteStore) Top(ctx context.Context, n int) (out []model.HighScore, err error) {
	defer observe(metrics.OpTop, time.Now(), &err)

	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	rows, err := s.db.QueryContext(ctx, topQuery, n)
	if err != nil {
		return nil, fmt.Errorf("%w: top: %w", ErrQuery, err)
	}
	defer rows.Close()

	out = make([]model.HighScore, 0, n)
	for rows.Next() {
		var (
			h    model.HighScore
			when string
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Score, &when); err != nil {
			return nil, fmt.Errorf("%w: top: %w", ErrQuery, err)
		}
		h.When, err = parseWhen(when)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCorruptRecord, h.ID, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: top: %w", ErrQuery, err)
	}
	return out, nil
}

// Replace implements Store.Replace in a single transaction.
func (s *SQLiteStore) Replace(ctx context.Context, evictID int64, rec model.HighScore) (id int64, err error) {
	defer observe(metrics.OpReplace, time.Now(), &err)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	if evictID != 0 {
		res, err := tx.ExecContext(ctx, deleteQuery, evictID)
		if err != nil {
			return 0, fmt.Errorf("%w: delete %d: %w", ErrWrite, evictID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			s.logger.Warn(ctx, "evicted row already missing from store", logger.Int64("id", evictID))
		}
	}

	res, err := tx.ExecContext(ctx, insertQuery, rec.Name, rec.Score, formatWhen(rec.When))
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %w", ErrWrite, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %w", ErrWrite, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrWrite, err)
	}
	return id, nil
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context) (n int, err error) {
	defer observe(metrics.OpCount, time.Now(), &err)

	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrQuery, err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatWhen(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseWhen accepts RFC 3339 with or without fractional seconds and any
// offset, normalizing to UTC.
func parseWhen(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func observe(op string, start time.Time, errp *error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if *errp != nil {
		metrics.RecordStoreError(op)
	}
}
