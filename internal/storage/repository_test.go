package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gastos/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndListTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	id1, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount:    core.Money{Cents: 5000000},
		Category:  "Comida",
		Kind:      core.KindExpense,
		CreatedAt: older,
		OwnerID:   "u1",
	})
	if err != nil || id1 == "" {
		t.Fatalf("insert: id=%q err=%v", id1, err)
	}
	id2, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount:    core.Money{Cents: 100000000},
		Kind:      core.KindIncome,
		CreatedAt: newer,
		OwnerID:   "u1",
	})
	if err != nil {
		t.Fatalf("insert income: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("ids must be unique, got %q twice", id1)
	}

	// Another owner's row must not leak into u1's snapshot.
	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 1}, Kind: core.KindExpense, Category: "x", CreatedAt: newer, OwnerID: "u2",
	}); err != nil {
		t.Fatalf("insert other owner: %v", err)
	}

	txs, err := repo.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	// Descending CreatedAt: the income inserted second is newer.
	if txs[0].Kind != core.KindIncome || !txs[0].CreatedAt.Equal(newer) {
		t.Fatalf("unexpected ordering: %+v", txs)
	}
	if txs[1].Category != "Comida" || txs[1].Amount.Cents != 5000000 {
		t.Fatalf("round-trip mismatch: %+v", txs[1])
	}
}

func TestOptionalFieldsSurviveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// A legacy-shaped row: no kind, no category, no timestamp.
	id, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount:  core.Money{Cents: 42},
		OwnerID: "u1",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != core.Kind("") || got.Category != "" || !got.CreatedAt.IsZero() {
		t.Fatalf("optional fields not preserved as absent: %+v", got)
	}
	if got.Amount.Cents != 42 {
		t.Fatalf("amount = %d", got.Amount.Cents)
	}
}

func TestPendingExportLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 100}, Kind: core.KindExpense, Category: "c",
		CreatedAt: time.Now(), OwnerID: "u1",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := repo.ListPendingExport(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("pending = %+v, err = %v", pending, err)
	}

	if err := repo.MarkExported(ctx, id); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, err = repo.ListPendingExport(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending after mark, got %+v err=%v", pending, err)
	}
}

func TestListUnknownOwnerIsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	txs, err := repo.ListTransactions(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty snapshot, got %d rows", len(txs))
	}
}
