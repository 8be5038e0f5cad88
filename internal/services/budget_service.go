package services

import (
	"context"
	"fmt"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/notify"
)

// BudgetStore is the storage surface the budget service needs.
// *storage.SQLiteRepository satisfies it.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, b core.Budget) (int64, error)
	DeleteBudget(ctx context.Context, id int64) error
	GetBudgetFor(ctx context.Context, categoryID int64, month, year int) (*core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// BudgetService evaluates budgets against a point-in-time transaction
// snapshot and fans alerts out to the notifier. Evaluations are cached
// per (category, month, year); any mutation purges the cache through
// TransactionService.
type BudgetService struct {
	store    BudgetStore
	notifier notify.Notifier
	cache    *cache.LRUCache[core.Evaluation]
}

func NewBudgetService(store BudgetStore, notifier notify.Notifier, evalCache *cache.LRUCache[core.Evaluation]) *BudgetService {
	return &BudgetService{
		store:    store,
		notifier: notifier,
		cache:    evalCache,
	}
}

// SetBudget validates and upserts a budget, replacing any existing
// budget for the same (category, month, year).
func (s *BudgetService) SetBudget(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("validate budget: %w", err)
	}

	id, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("save budget: %w", err)
	}

	if s.cache != nil {
		s.cache.Purge()
	}
	return id, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	if s.cache != nil {
		s.cache.Purge()
	}
	return nil
}

func (s *BudgetService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx)
}

// Check evaluates the budget for categoryID in month/year against the
// current transaction snapshot. Every evaluated status is pushed to
// the notifier; an absent budget (NO_BUDGET) is silent.
func (s *BudgetService) Check(ctx context.Context, categoryID int64, month, year int) (core.Evaluation, error) {
	key := evalKey(categoryID, month, year)
	if s.cache != nil {
		if ev, ok := s.cache.Get(key); ok {
			return ev, nil
		}
	}

	budget, err := s.store.GetBudgetFor(ctx, categoryID, month, year)
	if err != nil {
		return core.Evaluation{}, fmt.Errorf("load budget: %w", err)
	}

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Evaluation{}, fmt.Errorf("load transactions: %w", err)
	}

	ev, err := core.EvaluateBudget(budget, txs)
	if err != nil {
		return core.Evaluation{}, fmt.Errorf("evaluate budget: %w", err)
	}

	if ev.Status != core.StatusNoBudget && s.notifier != nil {
		s.notifier.Notify(ctx, ev, categoryID, month, year)
	}

	if s.cache != nil {
		s.cache.Set(key, ev)
	}
	return ev, nil
}

// Progress returns spent amount and the clamped usage fraction for a
// budget, for progress-bar rendering. It never notifies.
func (s *BudgetService) Progress(ctx context.Context, b core.Budget) (core.Money, float64, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, 0, fmt.Errorf("load transactions: %w", err)
	}

	ev, err := core.EvaluateBudget(&b, txs)
	if err != nil {
		return core.Money{}, 0, fmt.Errorf("evaluate budget: %w", err)
	}

	return ev.Spent, ev.Fraction, nil
}

func evalKey(categoryID int64, month, year int) string {
	return fmt.Sprintf("%d:%d:%d", categoryID, month, year)
}
