package sqlite

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/postsent/internal/cursor"
)

func TestSQLiteCursorRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cursor.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if _, found, err := st.Get(ctx, "raptors"); err != nil || found {
		t.Fatalf("expected no cursor, found=%v err=%v", found, err)
	}

	updated := time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)
	if err := st.Put(ctx, cursor.Cursor{Query: "raptors", SinceID: "1600000000000000001", UpdatedAt: updated}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c, found, err := st.Get(ctx, "raptors")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if c.SinceID != "1600000000000000001" {
		t.Errorf("SinceID mismatch: got %q", c.SinceID)
	}
	if !c.UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt mismatch: got %v, want %v", c.UpdatedAt, updated)
	}
}

func TestSQLiteCursorOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cursor.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	for _, id := range []string{"500", "90", "499"} {
		if err := st.Put(ctx, cursor.Cursor{Query: "q", SinceID: id}); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}

	c, _, _ := st.Get(ctx, "q")
	if c.SinceID != "500" {
		t.Errorf("expected cursor to stay at 500, got %q", c.SinceID)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cursor.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	started := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	run := cursor.Run{
		ID:         cursor.NewRunID(started),
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Queries:    []string{"Scottie Barnes", "O.G. Anunoby"},
		Posts:      42,
		Partial:    true,
	}
	if err := st.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := st.Put(ctx, cursor.Cursor{Query: "Scottie Barnes", SinceID: "77"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	runs, err := st.Runs(ctx, 5)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Posts != 42 || !got.Partial || len(got.Queries) != 2 {
		t.Errorf("run mismatch: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) || !got.FinishedAt.Equal(run.FinishedAt) {
		t.Errorf("run times mismatch: %+v", got)
	}

	if c, found, _ := st.Get(ctx, "Scottie Barnes"); !found || c.SinceID != "77" {
		t.Errorf("cursor not persisted: %+v found=%v", c, found)
	}
}

func TestSQLiteRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cursor.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var last string
	for i := 0; i < 5; i++ {
		last = cursor.NewRunID(base.Add(time.Duration(i) * time.Hour))
		if err := st.RecordRun(ctx, cursor.Run{ID: last, StartedAt: base, Queries: []string{}}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := st.Runs(ctx, 3)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != last {
		t.Errorf("expected 3 runs newest first, got %+v", runs)
	}
}

func TestSQLiteConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cursor.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := st.Put(ctx, cursor.Cursor{Query: "q", SinceID: strconv.Itoa(id)}); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("concurrent puts failed: %v", errs)
	}
	c, found, err := st.Get(ctx, "q")
	if err != nil || !found {
		t.Fatalf("expected a cursor, found=%v err=%v", found, err)
	}
	if c.SinceID != "20" {
		t.Errorf("expected the newest ID to win, got %q", c.SinceID)
	}
}
