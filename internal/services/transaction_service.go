package services

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// TransactionStore is the storage surface the transaction service
// needs. *storage.SQLiteRepository satisfies it.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	CreateCategory(ctx context.Context, c core.Category) (int64, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]core.Category, error)
}

// EventPublisher publishes sync events for the export worker.
// *amqp.Client satisfies it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// Purger invalidates a derived cache after a mutation.
type Purger interface {
	Purge()
}

// TransactionService orchestrates transaction and category mutations:
// validate, persist, invalidate derived caches, publish a sync event.
// Publishing is best effort: the local write never fails because the
// broker is down.
type TransactionService struct {
	store  TransactionStore
	events EventPublisher
	caches []Purger
}

func NewTransactionService(store TransactionStore, events EventPublisher, caches ...Purger) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
		caches: caches,
	}
}

// CreateTransaction validates and saves a transaction, then publishes
// an upsert event for the sync worker.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.invalidate()
	s.publish(ctx, amqp.EventUpsert, id)
	return id, nil
}

// UpdateTransaction validates and updates a transaction, then
// publishes an upsert event so the export row gets rewritten.
func (s *TransactionService) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.invalidate()
	s.publish(ctx, amqp.EventUpsert, tx.ID)
	return nil
}

// DeleteTransaction removes a transaction and publishes a delete event.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.invalidate()
	s.publish(ctx, amqp.EventDelete, id)
	return nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

// CreateCategory validates and saves a category.
func (s *TransactionService) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate category: %w", err)
	}

	id, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("save category: %w", err)
	}

	s.invalidate()
	return id, nil
}

func (s *TransactionService) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	s.invalidate()
	return nil
}

// DeleteCategory removes a category. Storage cascades the delete to
// the category's transactions and budgets.
func (s *TransactionService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.invalidate()
	return nil
}

func (s *TransactionService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *TransactionService) invalidate() {
	for _, c := range s.caches {
		c.Purge()
	}
}

func (s *TransactionService) publish(ctx context.Context, kind amqp.EventKind, id int64) {
	if s.events == nil {
		return
	}

	event := amqp.NewTransactionEvent(kind, id)
	if err := s.events.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind, "id", id, "error", err)
	}
}
