package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("persists and publishes upsert event", func(t *testing.T) {
		store := newFakeStore()
		pub := &fakePublisher{}
		purger := &fakePurger{}
		svc := NewTransactionService(store, pub, purger)

		id, err := svc.CreateTransaction(ctx, expenseAt("groceries", 1250, 1, now))
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		if id == 0 {
			t.Error("expected a non-zero ID")
		}
		if len(store.transactions) != 1 {
			t.Fatalf("expected 1 stored transaction, got %d", len(store.transactions))
		}
		if purger.purges != 1 {
			t.Errorf("expected 1 cache purge, got %d", purger.purges)
		}
		if len(pub.events) != 1 {
			t.Fatalf("expected 1 published event, got %d", len(pub.events))
		}
		if pub.events[0].Kind != amqp.EventUpsert {
			t.Errorf("event kind = %q, want %q", pub.events[0].Kind, amqp.EventUpsert)
		}
		if pub.events[0].ID != id {
			t.Errorf("event ID = %d, want %d", pub.events[0].ID, id)
		}
	})

	t.Run("rejects invalid transaction without persisting", func(t *testing.T) {
		store := newFakeStore()
		pub := &fakePublisher{}
		svc := NewTransactionService(store, pub)

		tx := expenseAt("bad", -100, 1, now)
		if _, err := svc.CreateTransaction(ctx, tx); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if len(store.transactions) != 0 {
			t.Error("invalid transaction must not be persisted")
		}
		if len(pub.events) != 0 {
			t.Error("invalid transaction must not publish an event")
		}
	})

	t.Run("broker failure does not fail the save", func(t *testing.T) {
		store := newFakeStore()
		pub := &fakePublisher{err: errors.New("broker down")}
		svc := NewTransactionService(store, pub)

		if _, err := svc.CreateTransaction(ctx, expenseAt("groceries", 1250, 1, now)); err != nil {
			t.Fatalf("save must survive broker failure, got %v", err)
		}
		if len(store.transactions) != 1 {
			t.Error("transaction should still be stored")
		}
	})

	t.Run("nil publisher is fine", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTransactionService(store, nil)

		if _, err := svc.CreateTransaction(ctx, expenseAt("groceries", 1250, 1, now)); err != nil {
			t.Fatalf("CreateTransaction with nil publisher: %v", err)
		}
	})
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &fakePublisher{}
	purger := &fakePurger{}
	svc := NewTransactionService(store, pub, purger)

	id, err := svc.CreateTransaction(ctx, expenseAt("groceries", 1250, 1, time.Now()))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(store.transactions) != 0 {
		t.Error("transaction should be removed")
	}
	if len(pub.events) != 2 || pub.events[1].Kind != amqp.EventDelete {
		t.Errorf("expected a delete event after the upsert, got %+v", pub.events)
	}
	if purger.purges != 2 {
		t.Errorf("expected 2 cache purges, got %d", purger.purges)
	}
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	id, err := svc.CreateTransaction(ctx, expenseAt("groceries", 1250, 1, time.Now()))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	updated := expenseAt("groceries and more", 1500, 1, time.Now())
	updated.ID = id
	if err := svc.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	got, err := svc.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 1500 {
		t.Errorf("amount after update = %d, want 1500", got.Amount.Cents)
	}
	if len(pub.events) != 2 || pub.events[1].Kind != amqp.EventUpsert {
		t.Errorf("update should publish an upsert event, got %+v", pub.events)
	}
}

func TestTransactionService_Categories(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewTransactionService(store, nil)

	t.Run("create and list", func(t *testing.T) {
		id, err := svc.CreateCategory(ctx, core.Category{Name: "Food"})
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		if id == 0 {
			t.Error("expected a non-zero ID")
		}

		cats, err := svc.ListCategories(ctx)
		if err != nil {
			t.Fatalf("ListCategories: %v", err)
		}
		if len(cats) != 1 || cats[0].Name != "Food" {
			t.Errorf("unexpected categories: %+v", cats)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		if _, err := svc.CreateCategory(ctx, core.Category{Name: "  "}); !errors.Is(err, core.ErrEmptyName) {
			t.Fatalf("expected ErrEmptyName, got %v", err)
		}
	})
}
