package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bilancio/internal/core"
)

// Dashboard is everything the dashboard view renders, computed from
// one transaction snapshot so all figures agree with each other.
type Dashboard struct {
	TotalIncome    core.Money
	TotalExpense   core.Money
	NetBalance     core.Money
	RecentExpenses []core.Transaction
	TrailingNet    []core.SeriesPoint
	MonthlyTotals  []core.MonthTotals
	ExpenseSlices  []core.CategoryAmount
	IncomeSlices   []core.CategoryAmount
}

// DashboardStore is the storage surface the dashboard service needs.
type DashboardStore interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
}

// DashboardService composes the aggregate series for rendering.
type DashboardService struct {
	store      DashboardStore
	windowDays int
}

func NewDashboardService(store DashboardStore, windowDays int) *DashboardService {
	return &DashboardService{
		store:      store,
		windowDays: windowDays,
	}
}

// Build computes the full dashboard as of now, for now's year.
func (s *DashboardService) Build(ctx context.Context) (Dashboard, error) {
	now := time.Now()
	_, year := core.MonthYearOf(now)
	return s.BuildAt(ctx, now, year)
}

// BuildAt computes the dashboard anchored at the given instant, with
// monthly totals for the given year.
func (s *DashboardService) BuildAt(ctx context.Context, anchor time.Time, year int) (Dashboard, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load transactions: %w", err)
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load categories: %w", err)
	}

	income := core.SumByDirection(txs, core.Income)
	expense := core.SumByDirection(txs, core.Expense)

	return Dashboard{
		TotalIncome:    income,
		TotalExpense:   expense,
		NetBalance:     income.Sub(expense),
		RecentExpenses: recentExpenses(txs, 3),
		TrailingNet:    core.TrailingCumulativeNet(txs, s.windowDays, anchor),
		MonthlyTotals:  core.MonthlyIncomeExpense(txs, year),
		ExpenseSlices:  core.CategoryBreakdown(txs, categories, core.Expense),
		IncomeSlices:   core.CategoryBreakdown(txs, categories, core.Income),
	}, nil
}

// recentExpenses returns the n most recent expense-direction entries,
// newest first.
func recentExpenses(txs []core.Transaction, n int) []core.Transaction {
	expenses := core.FilterTransactions(txs, core.Criteria{Direction: core.Expense})

	// ListTransactions already returns newest first, but don't rely
	// on callers always feeding sorted input.
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].OccurredAt.After(expenses[j].OccurredAt)
	})

	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}
