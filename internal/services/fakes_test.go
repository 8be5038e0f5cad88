package services

import (
	"context"
	"errors"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// fakeStore implements TransactionStore, BudgetStore and
// DashboardStore in memory for service tests.
type fakeStore struct {
	transactions []core.Transaction
	categories   []core.Category
	budgets      []core.Budget
	nextID       int64

	failListTransactions bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) CreateTransaction(_ context.Context, tx core.Transaction) (int64, error) {
	tx.ID = f.id()
	f.transactions = append(f.transactions, tx)
	return tx.ID, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	for i := range f.transactions {
		if f.transactions[i].ID == tx.ID {
			f.transactions[i] = tx
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	for _, tx := range f.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, errors.New("not found")
}

func (f *fakeStore) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	if f.failListTransactions {
		return nil, errors.New("storage down")
	}
	out := make([]core.Transaction, len(f.transactions))
	copy(out, f.transactions)
	return out, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	c.ID = f.id()
	f.categories = append(f.categories, c)
	return c.ID, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, c core.Category) error {
	for i := range f.categories {
		if f.categories[i].ID == c.ID {
			f.categories[i] = c
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteCategory(_ context.Context, id int64) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListCategories(_ context.Context) ([]core.Category, error) {
	out := make([]core.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeStore) UpsertBudget(_ context.Context, b core.Budget) (int64, error) {
	for i := range f.budgets {
		prev := f.budgets[i]
		if prev.CategoryID == b.CategoryID && prev.Month == b.Month && prev.Year == b.Year {
			b.ID = f.id()
			f.budgets[i] = b
			return b.ID, nil
		}
	}
	b.ID = f.id()
	f.budgets = append(f.budgets, b)
	return b.ID, nil
}

func (f *fakeStore) DeleteBudget(_ context.Context, id int64) error {
	for i := range f.budgets {
		if f.budgets[i].ID == id {
			f.budgets = append(f.budgets[:i], f.budgets[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) GetBudgetFor(_ context.Context, categoryID int64, month, year int) (*core.Budget, error) {
	for _, b := range f.budgets {
		if b.CategoryID == categoryID && b.Month == month && b.Year == year {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListBudgets(_ context.Context) ([]core.Budget, error) {
	out := make([]core.Budget, len(f.budgets))
	copy(out, f.budgets)
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, event *amqp.TransactionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// fakeNotifier records every notification it receives.
type fakeNotifier struct {
	calls []core.Evaluation
}

func (f *fakeNotifier) Notify(_ context.Context, ev core.Evaluation, _ int64, _, _ int) {
	f.calls = append(f.calls, ev)
}

// fakePurger counts invalidations.
type fakePurger struct {
	purges int
}

func (f *fakePurger) Purge() {
	f.purges++
}

func expenseAt(title string, cents int64, categoryID int64, at time.Time) core.Transaction {
	return core.Transaction{
		Title:      title,
		Amount:     core.Money{Cents: cents},
		OccurredAt: at,
		CategoryID: categoryID,
		Direction:  core.Expense,
	}
}

func incomeAt(title string, cents int64, categoryID int64, at time.Time) core.Transaction {
	return core.Transaction{
		Title:      title,
		Amount:     core.Money{Cents: cents},
		OccurredAt: at,
		CategoryID: categoryID,
		Direction:  core.Income,
	}
}
