package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// LocalKey is the key the local top list is stored under.
const LocalKey = "emojiMemoryLocalScores"

// LocalStore keeps the top list as one JSON document in a key/value table.
type LocalStore struct {
	db  *sql.DB
	key string
}

func NewLocalStore(ctx context.Context, db *sql.DB) (*LocalStore, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creating kv table: %w", err)
	}
	return &LocalStore{db: db, key: LocalKey}, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *LocalStore) load(ctx context.Context, q querier) ([]Record, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT json(value) FROM kv WHERE key = ?`, s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local scores: %w", err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decoding local scores: %w", err)
	}
	return records, nil
}

func (s *LocalStore) Top5(ctx context.Context) ([]Record, error) {
	records, err := s.load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return Rank(records), nil
}

// Submit appends rec, re-ranks and writes the list back in one transaction.
func (s *LocalStore) Submit(ctx context.Context, rec Record) ([]Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	records, err := s.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	top := Rank(append(records, rec))

	data, err := json.Marshal(top)
	if err != nil {
		return nil, fmt.Errorf("encoding local scores: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, jsonb(?))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, string(data),
	); err != nil {
		return nil, fmt.Errorf("writing local scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing local scores: %w", err)
	}
	return top, nil
}

// Check implements health.Checker.
func (s *LocalStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
