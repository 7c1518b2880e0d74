package storage

import (
	"context"
	"path/filepath"
	"testing"

	"duitku/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestWriteQueue_EnqueueAndFetch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnqueueWrite(ctx, "id-1", KindExpense, []byte(`{"amount":100}`)); err != nil {
		t.Fatal(err)
	}
	if err := repo.EnqueueWrite(ctx, "id-2", KindIncome, []byte(`{"amount":200}`)); err != nil {
		t.Fatal(err)
	}

	w, err := repo.GetWrite(ctx, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Kind != KindExpense || string(w.Payload) != `{"amount":100}` {
		t.Errorf("unexpected write: %+v", w)
	}
	if w.SyncedAt != nil {
		t.Error("fresh write should not be synced")
	}

	pending, err := repo.GetPendingWrites(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
}

func TestWriteQueue_MarkSynced(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnqueueWrite(ctx, "id-1", KindExpense, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkSynced(ctx, "id-1"); err != nil {
		t.Fatal(err)
	}

	pending, err := repo.GetPendingWrites(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("synced write still pending: %+v", pending)
	}

	w, err := repo.GetWrite(ctx, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if w.SyncedAt == nil {
		t.Error("expected synced_at to be set")
	}
}

func TestWriteQueue_MarkSyncError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnqueueWrite(ctx, "id-1", KindBudgets, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkSyncError(ctx, "id-1", "sheet unavailable"); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkSyncError(ctx, "id-1", "still unavailable"); err != nil {
		t.Fatal(err)
	}

	w, err := repo.GetWrite(ctx, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if w.SyncError != "still unavailable" {
		t.Errorf("sync_error = %q", w.SyncError)
	}
	if w.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", w.Attempts)
	}

	// Failed writes stay in the queue for retry.
	pending, err := repo.GetPendingWrites(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
}

func TestWriteQueue_BatchLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.EnqueueWrite(ctx, id, KindExpense, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := repo.GetPendingWrites(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2 (limit)", len(pending))
	}
}

func TestSnapshots_UpsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	points := []core.HistoricalPoint{
		{Month: 4, Year: 2025, Income: 10000000, Expenses: 8000000},
		{Month: 5, Year: 2025, Income: 11000000, Expenses: 8500000},
	}
	for _, p := range points {
		if err := repo.RecordSnapshot(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	// Re-recording the same month overwrites, not duplicates.
	if err := repo.RecordSnapshot(ctx, core.HistoricalPoint{Month: 5, Year: 2025, Income: 12000000, Expenses: 9000000}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListSnapshots(ctx, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(got))
	}
	if got[0].Month != 4 || got[1].Month != 5 {
		t.Errorf("snapshots out of order: %+v", got)
	}
	if got[1].Income != 12000000 {
		t.Errorf("May income = %v, want upserted 12000000", got[1].Income)
	}
	if got[1].Savings != 3000000 {
		t.Errorf("May savings = %v, want 3000000", got[1].Savings)
	}
}
