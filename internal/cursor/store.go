// Package cursor remembers how far each search query has been collected so
// that reruns only ask the API for newer posts.
package cursor

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the interface for persisting collection progress
type Store interface {
	Close() error

	// Get returns the cursor for a query; found is false for new queries.
	Get(ctx context.Context, query string) (c Cursor, found bool, err error)
	// Put stores a cursor. A SinceID older than the stored one is ignored,
	// so cursors only move forward.
	Put(ctx context.Context, c Cursor) error

	RecordRun(ctx context.Context, r Run) error
	// Runs returns the most recent runs first.
	Runs(ctx context.Context, limit int) ([]Run, error)
}

// Cursor is the newest post ID collected for a query
type Cursor struct {
	Query     string
	SinceID   string
	UpdatedAt time.Time
}

// Run summarizes one collector invocation
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Queries    []string
	Posts      int
	// Partial is set when collection stopped early on a rate limit.
	Partial bool
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a ULID for t. IDs minted in the same millisecond still
// sort in creation order.
func NewRunID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Newer reports whether post ID a is newer than b. Post IDs are decimal
// snowflakes, so a longer ID is always newer.
func Newer(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
