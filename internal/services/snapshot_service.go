// Package services orchestrates the store, the event queue and the
// aggregation engine behind the HTTP layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gastos/internal/core"
	"gastos/internal/store"
)

// SnapshotService materializes full transaction snapshots per owner.
//
// The engine never takes partial deltas: every read fetches the complete
// list, and a mutation invalidates the owner's snapshot so the next read
// reloads from the store. Each fetch is stamped with an increasing
// sequence number; a slow fetch that completes after a newer one is
// discarded rather than overwriting fresher data.
type SnapshotService struct {
	reader store.TransactionReader

	seq atomic.Uint64

	mu   sync.Mutex
	last map[string]core.Snapshot // last-known-good per owner
}

func NewSnapshotService(reader store.TransactionReader) *SnapshotService {
	return &SnapshotService{
		reader: reader,
		last:   make(map[string]core.Snapshot),
	}
}

// Fetch returns the current snapshot for an owner.
//
// An empty ownerID is the unauthenticated first-run state: an empty
// snapshot, not an error. On a store failure the previous snapshot (if
// any) is returned alongside the error so the caller can keep displaying
// last-known-good figures instead of flashing an empty dashboard.
func (s *SnapshotService) Fetch(ctx context.Context, ownerID string) (core.Snapshot, error) {
	if ownerID == "" {
		return core.Snapshot{TakenAt: time.Now()}, nil
	}

	seq := s.seq.Add(1)
	txs, err := s.reader.ListTransactions(ctx, ownerID)
	if err != nil {
		stale, ok := s.lastKnown(ownerID)
		if ok {
			slog.WarnContext(ctx, "Snapshot fetch failed, serving last-known-good",
				"owner_id", ownerID, "stale_seq", stale.Seq, "error", err)
			return stale, fmt.Errorf("fetch transactions: %w", err)
		}
		return core.Snapshot{}, fmt.Errorf("fetch transactions: %w", err)
	}

	snap := core.Snapshot{Seq: seq, TakenAt: time.Now(), Transactions: txs}
	s.retain(ownerID, snap)
	slog.DebugContext(ctx, "Snapshot fetched",
		"owner_id", ownerID, "seq", seq, "transactions", len(txs))
	return snap, nil
}

// Invalidate drops the retained snapshot after a mutation. There is no
// merge-patch path: the next Fetch reloads the full list.
func (s *SnapshotService) Invalidate(ownerID string) {
	if ownerID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, ownerID)
}

func (s *SnapshotService) lastKnown(ownerID string) (core.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.last[ownerID]
	return snap, ok
}

// retain keeps the snapshot unless a newer fetch already landed.
func (s *SnapshotService) retain(ownerID string, snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.last[ownerID]; ok && prev.Seq > snap.Seq {
		return
	}
	s.last[ownerID] = snap
}
