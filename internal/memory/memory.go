// Package memory is an in-memory transaction store used as the default
// backend for local runs and as the store double in handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gastos/internal/core"
)

type Store struct {
	mu   sync.Mutex
	seq  int
	txs  []core.Transaction
}

func New() *Store {
	return &Store{}
}

// InsertTransaction stores the transaction and returns a synthetic ID.
func (s *Store) InsertTransaction(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	tx.ID = fmt.Sprintf("mem:%d", s.seq)
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

// ListTransactions returns the owner's transactions, newest first. The
// returned slice is a copy; callers treat it as an immutable snapshot.
func (s *Store) ListTransactions(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.txs {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetTransaction returns a stored transaction by ID.
func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s not found", id)
}
