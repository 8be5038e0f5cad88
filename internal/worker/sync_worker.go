package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/export"
	"bilancio/internal/storage"
)

// Store is the storage surface the sync worker needs.
// *storage.SQLiteRepository satisfies it.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]storage.PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// EventConsumer delivers transaction change events.
// *amqp.Client satisfies it.
type EventConsumer interface {
	ConsumeTransactionEvents(ctx context.Context, handler func(context.Context, *amqp.TransactionEvent) error) error
}

// SyncWorker exports local transactions to the spreadsheet. It reacts
// to broker events and also sweeps the pending-sync backlog on a
// timer, so a lost message delays an export instead of losing it.
type SyncWorker struct {
	store      Store
	writer     export.RowWriter
	tombstones export.TombstoneWriter
	batchSize  int

	categoryNames *cache.LRUCache[string]
}

func NewSyncWorker(store Store, writer export.RowWriter, tombstones export.TombstoneWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:         store,
		writer:        writer,
		tombstones:    tombstones,
		batchSize:     batchSize,
		categoryNames: cache.NewLRUCache[string](64, 5*time.Minute),
	}
}

// HandleTransactionEvent processes one change event from the broker.
// A returned error makes the consumer requeue the message.
func (w *SyncWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"kind", event.Kind, "id", event.ID)

	switch event.Kind {
	case amqp.EventUpsert:
		return w.exportTransaction(ctx, event.ID)
	case amqp.EventDelete:
		return w.recordTombstone(ctx, event.ID)
	default:
		// Unknown kinds are dropped, not requeued: a newer producer
		// may emit kinds this worker does not know.
		slog.WarnContext(ctx, "Dropping event of unknown kind",
			"kind", event.Kind, "id", event.ID)
		return nil
	}
}

func (w *SyncWorker) exportTransaction(ctx context.Context, id int64) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted locally before the event arrived. The delete event
		// will write the tombstone.
		slog.InfoContext(ctx, "Transaction gone before export, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	categoryName, err := w.categoryName(ctx, tx.CategoryID)
	if err != nil {
		return fmt.Errorf("resolve category %d: %w", tx.CategoryID, err)
	}

	ref, err := w.writer.AppendTransaction(ctx, tx, categoryName)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append transaction %d: %w", id, err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", id, "sheets_ref", ref)
	return nil
}

func (w *SyncWorker) recordTombstone(ctx context.Context, id int64) error {
	if w.tombstones == nil {
		slog.WarnContext(ctx, "No tombstone writer configured, skipping", "id", id)
		return nil
	}

	ref, err := w.tombstones.AppendTombstone(ctx, id)
	if err != nil {
		return fmt.Errorf("append tombstone for %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Tombstone recorded", "id", id, "sheets_ref", ref)
	return nil
}

// ProcessPending exports transactions never picked up from a broker
// event. Individual failures are marked and skipped so one bad row
// does not wedge the backlog.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				"id", p.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck sweeps a larger pending batch once at startup to
// recover from missed events or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed startup export", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

// Run consumes broker events and sweeps the pending backlog on the
// given interval until the context is cancelled. A nil consumer runs
// the sweep alone, for deployments without a broker.
func (w *SyncWorker) Run(ctx context.Context, consumer EventConsumer, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeTransactionEvents(ctx, w.HandleTransactionEvent)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *SyncWorker) categoryName(ctx context.Context, categoryID int64) (string, error) {
	key := fmt.Sprintf("%d", categoryID)
	if name, ok := w.categoryNames.Get(key); ok {
		return name, nil
	}

	categories, err := w.store.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}

	name := ""
	for _, c := range categories {
		w.categoryNames.Set(fmt.Sprintf("%d", c.ID), c.Name)
		if c.ID == categoryID {
			name = c.Name
		}
	}
	return name, nil
}
