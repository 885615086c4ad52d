package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/postsent/internal/cursor"
)

// Store is an in-memory implementation of cursor.Store for tests.
type Store struct {
	mu      sync.RWMutex
	cursors map[string]cursor.Cursor
	runs    []cursor.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{cursors: make(map[string]cursor.Cursor)}
}

// Close implements cursor.Store.
func (s *Store) Close() error { return nil }

// Get implements cursor.Store.
func (s *Store) Get(ctx context.Context, query string) (cursor.Cursor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cursors[query]
	return c, ok, nil
}

// Put implements cursor.Store.
func (s *Store) Put(ctx context.Context, c cursor.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cursors[c.Query]; ok && !cursor.Newer(c.SinceID, existing.SinceID) {
		return nil
	}
	s.cursors[c.Query] = c
	return nil
}

// RecordRun implements cursor.Store.
func (s *Store) RecordRun(ctx context.Context, r cursor.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Queries = append([]string(nil), r.Queries...)
	for i, existing := range s.runs {
		if existing.ID == r.ID {
			s.runs[i] = r
			return nil
		}
	}
	s.runs = append(s.runs, r)
	return nil
}

// Runs implements cursor.Store.
func (s *Store) Runs(ctx context.Context, limit int) ([]cursor.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	out := make([]cursor.Run, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
