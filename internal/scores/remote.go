package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

// DefaultAppID namespaces remote documents when no app id is configured.
const DefaultAppID = "emoji-memory"

type remoteDoc struct {
	Name      string `json:"name"`
	Time      int    `json:"time"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

// RemoteStore is an append-only document collection shared by every
// client of the same app namespace.
type RemoteStore struct {
	db        *sql.DB
	namespace string
	clock     clockwork.Clock
}

func NewRemoteStore(ctx context.Context, db *sql.DB, appID string, clock clockwork.Clock) (*RemoteStore, error) {
	ns := slug.Make(appID)
	if ns == "" {
		ns = DefaultAppID
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id        TEXT PRIMARY KEY,
			namespace TEXT NOT NULL,
			data      JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_namespace ON scores(namespace)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating scores schema: %w", err)
		}
	}
	return &RemoteStore{db: db, namespace: ns, clock: clock}, nil
}

func (s *RemoteStore) Namespace() string { return s.namespace }

// Submit appends rec as a new document and returns the refreshed top list.
func (s *RemoteStore) Submit(ctx context.Context, rec Record) ([]Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(remoteDoc{
		Name:      rec.Name,
		Time:      rec.Time,
		Date:      rec.Date,
		Timestamp: s.clock.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding score: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, namespace, data) VALUES (?, ?, jsonb(?))`,
		uuid.NewString(), s.namespace, string(data),
	); err != nil {
		return nil, fmt.Errorf("inserting score: %w", err)
	}
	return s.Top5(ctx)
}

// Top5 reads every document in the namespace, drops malformed ones and
// ranks the rest.
func (s *RemoteStore) Top5(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM scores WHERE namespace = ? ORDER BY rowid`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	var docs []remoteDoc
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		var doc remoteDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scores: %w", err)
	}

	records := lo.FilterMap(docs, func(d remoteDoc, _ int) (Record, bool) {
		rec := Record{Name: d.Name, Time: d.Time, Date: d.Date}
		return rec, rec.Validate() == nil
	})
	return Rank(records), nil
}

// Ping issues a round trip to the remote, used as the auth/reachability probe.
func (s *RemoteStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("pinging remote scores: %w", err)
	}
	return nil
}
