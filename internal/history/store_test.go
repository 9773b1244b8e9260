package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"sortd/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	records := []history.Record{
		{RunID: "run-1", SourcePath: "/root/a.txt", Destination: "/root/txt/a.txt", Digest: "d1", Outcome: history.OutcomeMoved},
		{RunID: "run-1", SourcePath: "/root/b.txt", Destination: "/root/txt/b_duplicate.txt", Digest: "d1", Outcome: history.OutcomeDuplicate},
		{RunID: "run-2", SourcePath: "/root/c.jpg", Outcome: history.OutcomeFailed, ErrorText: "permission denied"},
	}
	for _, rec := range records {
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	// Newest first.
	if all[0].SourcePath != "/root/c.jpg" {
		t.Fatalf("expected newest row first, got %q", all[0].SourcePath)
	}
	if all[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at to round-trip")
	}

	run1, err := store.List(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("List run-1: %v", err)
	}
	if len(run1) != 2 {
		t.Fatalf("expected 2 rows for run-1, got %d", len(run1))
	}

	limited, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 row with limit, got %d", len(limited))
	}
}

func TestSummarize(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	outcomes := []history.Outcome{
		history.OutcomeMoved, history.OutcomeMoved,
		history.OutcomeDuplicate,
		history.OutcomeSkipped,
		history.OutcomeFailed, history.OutcomeFailed, history.OutcomeFailed,
	}
	for i, outcome := range outcomes {
		rec := history.Record{RunID: "run-x", SourcePath: filepath.Join("/root", "f", string(rune('a'+i))), Outcome: outcome}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	summary, err := store.Summarize(ctx, "run-x")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Moved != 2 || summary.Duplicates != 1 || summary.Skipped != 1 || summary.Failed != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := store.Record(context.Background(), history.Record{RunID: "r", SourcePath: "/a", Outcome: history.OutcomeMoved}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	rows, err := reopened.List(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected persisted row after reopen, got %d", len(rows))
	}
}
