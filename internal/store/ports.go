// Package store declares the outbound ports the dashboard core consumes.
// Adapters (SQLite, in-memory) implement them; the core never sees a
// concrete store.
package store

import (
	"context"

	"gastos/internal/core"
)

type (
	// TransactionReader returns the full, fully-materialized transaction
	// list for one owner, ordered by CreatedAt descending. The aggregation
	// engine is order-independent; the ordering is a display contract.
	TransactionReader interface {
		ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error)
	}

	// TransactionWriter persists a new transaction. The store assigns the
	// ID and returns it; CreatedAt is set by the caller to insertion time.
	TransactionWriter interface {
		InsertTransaction(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// TransactionGetter fetches a single transaction by ID. Used by the
	// export worker to rehydrate rows referenced in queue messages.
	TransactionGetter interface {
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}
)
