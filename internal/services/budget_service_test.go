package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
)

func TestBudgetService_Check(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.Local)

	t.Run("exceeded budget notifies", func(t *testing.T) {
		store := newFakeStore()
		store.budgets = []core.Budget{{ID: 1, CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}}
		store.transactions = []core.Transaction{expenseAt("rent", 10001, 1, at)}
		notifier := &fakeNotifier{}
		svc := NewBudgetService(store, notifier, nil)

		ev, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if ev.Status != core.StatusExceeded {
			t.Errorf("status = %q, want %q", ev.Status, core.StatusExceeded)
		}
		if len(notifier.calls) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
		}
		if notifier.calls[0].Status != core.StatusExceeded {
			t.Errorf("notified status = %q, want %q", notifier.calls[0].Status, core.StatusExceeded)
		}
	})

	t.Run("within limits still notifies", func(t *testing.T) {
		store := newFakeStore()
		store.budgets = []core.Budget{{ID: 1, CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}}
		store.transactions = []core.Transaction{expenseAt("coffee", 300, 1, at)}
		notifier := &fakeNotifier{}
		svc := NewBudgetService(store, notifier, nil)

		ev, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if ev.Status != core.StatusWithinLimits {
			t.Errorf("status = %q, want %q", ev.Status, core.StatusWithinLimits)
		}
		if len(notifier.calls) != 1 {
			t.Errorf("expected 1 notification, got %d", len(notifier.calls))
		}
	})

	t.Run("absent budget is silent and not an error", func(t *testing.T) {
		store := newFakeStore()
		store.transactions = []core.Transaction{expenseAt("coffee", 300, 1, at)}
		notifier := &fakeNotifier{}
		svc := NewBudgetService(store, notifier, nil)

		ev, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("Check with no budget must not error, got %v", err)
		}
		if ev.Status != core.StatusNoBudget {
			t.Errorf("status = %q, want %q", ev.Status, core.StatusNoBudget)
		}
		if ev.Message != "" {
			t.Errorf("no-budget message must be empty, got %q", ev.Message)
		}
		if len(notifier.calls) != 0 {
			t.Errorf("no-budget must not notify, got %d calls", len(notifier.calls))
		}
	})

	t.Run("cached evaluation skips recomputation", func(t *testing.T) {
		store := newFakeStore()
		store.budgets = []core.Budget{{ID: 1, CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}}
		store.transactions = []core.Transaction{expenseAt("coffee", 300, 1, at)}
		notifier := &fakeNotifier{}
		evalCache := cache.NewLRUCache[core.Evaluation](16, time.Minute)
		svc := NewBudgetService(store, notifier, evalCache)

		first, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("first Check: %v", err)
		}

		// A cached hit returns the old figure and stays silent.
		store.transactions = append(store.transactions, expenseAt("rent", 99999, 1, at))
		second, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("second Check: %v", err)
		}
		if second != first {
			t.Errorf("cached evaluation changed: %+v vs %+v", second, first)
		}
		if len(notifier.calls) != 1 {
			t.Errorf("cache hit must not re-notify, got %d calls", len(notifier.calls))
		}

		evalCache.Purge()
		third, err := svc.Check(ctx, 1, 3, 2026)
		if err != nil {
			t.Fatalf("third Check: %v", err)
		}
		if third.Status != core.StatusExceeded {
			t.Errorf("after purge status = %q, want %q", third.Status, core.StatusExceeded)
		}
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		store := newFakeStore()
		store.budgets = []core.Budget{{ID: 1, CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}}
		store.failListTransactions = true
		svc := NewBudgetService(store, &fakeNotifier{}, nil)

		if _, err := svc.Check(ctx, 1, 3, 2026); err == nil {
			t.Fatal("expected error when transactions cannot be loaded")
		}
	})
}

func TestBudgetService_SetBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert replaces same key", func(t *testing.T) {
		store := newFakeStore()
		svc := NewBudgetService(store, nil, nil)

		if _, err := svc.SetBudget(ctx, core.Budget{CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}); err != nil {
			t.Fatalf("first SetBudget: %v", err)
		}
		if _, err := svc.SetBudget(ctx, core.Budget{CategoryID: 1, Amount: core.Money{Cents: 20000}, Month: 3, Year: 2026}); err != nil {
			t.Fatalf("second SetBudget: %v", err)
		}

		budgets, err := svc.ListBudgets(ctx)
		if err != nil {
			t.Fatalf("ListBudgets: %v", err)
		}
		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget after replace, got %d", len(budgets))
		}
		if budgets[0].Amount.Cents != 20000 {
			t.Errorf("amount = %d, want 20000", budgets[0].Amount.Cents)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		svc := NewBudgetService(newFakeStore(), nil, nil)
		_, err := svc.SetBudget(ctx, core.Budget{CategoryID: 1, Month: 3, Year: 2026})
		if !errors.Is(err, core.ErrInvalidBudget) {
			t.Fatalf("expected ErrInvalidBudget, got %v", err)
		}
	})

	t.Run("month out of range rejected", func(t *testing.T) {
		svc := NewBudgetService(newFakeStore(), nil, nil)
		_, err := svc.SetBudget(ctx, core.Budget{CategoryID: 1, Amount: core.Money{Cents: 100}, Month: 13, Year: 2026})
		if !errors.Is(err, core.ErrInvalidMonth) {
			t.Fatalf("expected ErrInvalidMonth, got %v", err)
		}
	})
}

func TestBudgetService_Progress(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.Local)
	store := newFakeStore()
	store.transactions = []core.Transaction{
		expenseAt("rent", 15000, 1, at),
		incomeAt("salary", 50000, 1, at),
	}
	svc := NewBudgetService(store, &fakeNotifier{}, nil)

	budget := core.Budget{CategoryID: 1, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2026}
	spent, fraction, err := svc.Progress(ctx, budget)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if spent.Cents != 15000 {
		t.Errorf("spent = %d, want 15000 (income excluded)", spent.Cents)
	}
	if fraction != 1 {
		t.Errorf("fraction = %v, want clamped 1", fraction)
	}
}
