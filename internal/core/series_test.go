package core

import (
	"reflect"
	"testing"
	"time"
)

func TestTrailingCumulativeNet(t *testing.T) {
	anchor := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(1, 1, 1000, Income, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)),
		tx(2, 1, 300, Expense, time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)),
		tx(3, 1, 200, Expense, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)),
		tx(4, 1, 9999, Income, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)), // outside window
	}

	points := TrailingCumulativeNet(txs, 3, anchor)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	wantNet := []int64{1000, -300, -200}
	wantCumulative := []int64{1000, 700, 500}
	for i, p := range points {
		if p.Net.Cents != wantNet[i] {
			t.Fatalf("point %d net = %d, want %d", i, p.Net.Cents, wantNet[i])
		}
		if p.Cumulative.Cents != wantCumulative[i] {
			t.Fatalf("point %d cumulative = %d, want %d", i, p.Cumulative.Cents, wantCumulative[i])
		}
	}
	if points[0].Label != "03/08" {
		t.Fatalf("oldest label = %q, want 03/08", points[0].Label)
	}
	if points[0].Cumulative != points[0].Net {
		t.Fatal("first point's cumulative value must equal its own net")
	}
}

func TestTrailingCumulativeNetIdempotent(t *testing.T) {
	anchor := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(1, 1, 1000, Income, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)),
		tx(2, 2, 450, Expense, time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)),
	}

	first := TrailingCumulativeNet(txs, 28, anchor)
	second := TrailingCumulativeNet(txs, 28, anchor)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must yield identical output")
	}
	if len(first) != 28 {
		t.Fatalf("expected 28 points, got %d", len(first))
	}
}

func TestMonthlyIncomeExpense(t *testing.T) {
	txs := []Transaction{
		tx(1, 1, 5000, Income, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		tx(2, 1, 2000, Expense, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
		tx(3, 1, 3000, Expense, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)),
		tx(4, 1, 8000, Income, time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)), // other year
	}

	months := MonthlyIncomeExpense(txs, 2024)
	if len(months) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(months))
	}
	if months[0].Income.Cents != 5000 || months[0].Expense.Cents != 2000 {
		t.Fatalf("january = %+v, want income 5000 expense 2000", months[0])
	}
	if months[11].Expense.Cents != 3000 {
		t.Fatalf("december expense = %d, want 3000", months[11].Expense.Cents)
	}
	if months[5].Income.Cents != 0 {
		t.Fatal("2023 income must not leak into 2024")
	}
}

func TestMonthlyIncomeExpenseEmptyYear(t *testing.T) {
	months := MonthlyIncomeExpense(nil, 2024)
	if len(months) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(months))
	}
	for i, m := range months {
		if m.Income.Cents != 0 || m.Expense.Cents != 0 {
			t.Fatalf("month %d = %+v, want (0, 0)", i+1, m)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	categories := []Category{
		{ID: 1, Name: "Food"},
		{ID: 2, Name: "Transport"},
		{ID: 3, Name: "Rent"},
	}
	txs := []Transaction{
		tx(1, 1, 3000, Expense, at),
		tx(2, 1, 1000, Expense, at),
		tx(3, 2, 6000, Expense, at),
		tx(4, 3, 9000, Income, at), // wrong direction, must not appear
	}

	got := CategoryBreakdown(txs, categories, Expense)
	want := []CategoryAmount{
		{Name: "Transport", Total: Money{Cents: 6000}},
		{Name: "Food", Total: Money{Cents: 4000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("breakdown = %+v, want %+v", got, want)
	}
}

func TestCategoryBreakdownDropsUnresolvable(t *testing.T) {
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	categories := []Category{{ID: 1, Name: "Food"}}
	txs := []Transaction{
		tx(1, 1, 3000, Expense, at),
		tx(2, 99, 5000, Expense, at), // category no longer resolvable
	}

	got := CategoryBreakdown(txs, categories, Expense)
	if len(got) != 1 || got[0].Name != "Food" {
		t.Fatalf("breakdown = %+v, want only Food", got)
	}
}

func TestCategoryBreakdownTotalMatchesDirectionSum(t *testing.T) {
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	categories := []Category{{ID: 1, Name: "Food"}, {ID: 2, Name: "Transport"}}
	txs := []Transaction{
		tx(1, 1, 3000, Expense, at),
		tx(2, 2, 4500, Expense, at),
		tx(3, 1, 2000, Income, at),
	}

	var breakdownTotal int64
	for _, ca := range CategoryBreakdown(txs, categories, Expense) {
		breakdownTotal += ca.Total.Cents
	}
	if direct := SumByDirection(txs, Expense); breakdownTotal != direct.Cents {
		t.Fatalf("breakdown total %d != direction sum %d", breakdownTotal, direct.Cents)
	}
}
