// Package worker drives the transaction export pipeline: queue messages
// first, plus a periodic sweep for rows missed while the broker or the
// worker was down.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/storage"
)

// TransactionExporter is the export destination (Google Sheets in
// production, a fake in tests).
type TransactionExporter interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

// ExportWorker mirrors stored transactions to the export ledger.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	exporter  TransactionExporter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, exporter TransactionExporter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleCreatedMessage processes one created event from the queue. The
// message carries only the ID; the row is rehydrated from the store.
func (w *ExportWorker) HandleCreatedMessage(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	slog.InfoContext(ctx, "Processing created message", "id", msg.ID, "owner_id", msg.OwnerID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.exportOne(ctx, tx)
}

// ProcessPending exports transactions that never made it through the
// queue, oldest first, up to the configured batch size.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending export: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))
	for _, tx := range pending {
		if err := w.exportOne(ctx, tx); err != nil {
			// Keep going; the failed row stays pending for the next sweep.
			slog.ErrorContext(ctx, "Pending export failed", "id", tx.ID, "error", err)
		}
	}
	return nil
}

func (w *ExportWorker) exportOne(ctx context.Context, tx core.Transaction) error {
	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping", "id", tx.ID)
		return nil
	}
	if err := w.exporter.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return w.storage.MarkExported(ctx, tx.ID)
}
