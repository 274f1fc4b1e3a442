package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/core"
	"gastos/internal/store"
)

// CreatedPublisher announces inserted transactions to the export queue.
type CreatedPublisher interface {
	PublishTransactionCreated(ctx context.Context, id, ownerID string) error
}

// TransactionService writes new transactions through the store port,
// announces them on the queue and invalidates the owner's snapshot so the
// dashboard refetches a consistent list.
type TransactionService struct {
	writer    store.TransactionWriter
	publisher CreatedPublisher
	snapshots *SnapshotService
}

func NewTransactionService(writer store.TransactionWriter, publisher CreatedPublisher, snapshots *SnapshotService) *TransactionService {
	return &TransactionService{
		writer:    writer,
		publisher: publisher,
		snapshots: snapshots,
	}
}

// Create stamps CreatedAt with the insertion time, persists the
// transaction and returns the store-assigned ID. Publishing the created
// event is best-effort: a broker outage never fails an insert that the
// store already acknowledged.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	tx.CreatedAt = time.Now()

	id, err := s.writer.InsertTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, id, tx.OwnerID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish created event",
				"id", id, "owner_id", tx.OwnerID, "error", err)
		}
	}

	if s.snapshots != nil {
		s.snapshots.Invalidate(tx.OwnerID)
	}

	return id, nil
}
