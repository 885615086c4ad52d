package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/postsent/internal/cursor"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

// sqliteStore implements the cursor.Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (cursor.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	// One writer at a time; Put reads and writes inside a transaction.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS cursors (
	query TEXT PRIMARY KEY,
	since_id TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	queries TEXT NOT NULL,
	posts INTEGER NOT NULL DEFAULT 0,
	partial INTEGER NOT NULL DEFAULT 0
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Get retrieves the cursor for a query
func (s *sqliteStore) Get(ctx context.Context, query string) (cursor.Cursor, bool, error) {
	var c cursor.Cursor
	var updated string
	err := s.db.QueryRowContext(ctx, `
SELECT query, since_id, updated_at FROM cursors WHERE query = ?;
`, query).Scan(&c.Query, &c.SinceID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return cursor.Cursor{}, false, nil
	}
	if err != nil {
		return cursor.Cursor{}, false, err
	}
	c.UpdatedAt = parseTime(updated)
	return c, true, nil
}

// Put stores a cursor unless the stored one is already newer
func (s *sqliteStore) Put(ctx context.Context, c cursor.Cursor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT since_id FROM cursors WHERE query = ?;`, c.Query).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case !cursor.Newer(c.SinceID, current):
		return nil
	}

	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO cursors (query, since_id, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(query) DO UPDATE SET
	since_id=excluded.since_id,
	updated_at=excluded.updated_at;
`, c.Query, c.SinceID, formatTime(c.UpdatedAt))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// RecordRun inserts or updates a run summary
func (s *sqliteStore) RecordRun(ctx context.Context, r cursor.Run) error {
	queriesJSON, err := json.Marshal(r.Queries)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, queries, posts, partial)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	started_at=excluded.started_at,
	finished_at=excluded.finished_at,
	queries=excluded.queries,
	posts=excluded.posts,
	partial=excluded.partial;
`, r.ID, formatTime(r.StartedAt), formatTime(r.FinishedAt), string(queriesJSON), r.Posts, r.Partial)
	return err
}

// Runs retrieves the most recent runs
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]cursor.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, queries, posts, partial
FROM runs
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []cursor.Run
	for rows.Next() {
		var r cursor.Run
		var started, finished, queriesJSON string
		if err := rows.Scan(&r.ID, &started, &finished, &queriesJSON, &r.Posts, &r.Partial); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(queriesJSON), &r.Queries); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
