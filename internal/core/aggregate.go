package core

import (
	"strings"
	"time"
)

// Criteria selects a subset of transactions. The zero value matches
// everything. Title matching is a case-insensitive substring test;
// CategoryID of AllCategories matches every category; an empty
// Direction matches both directions.
type Criteria struct {
	Title      string
	Direction  Direction
	CategoryID int64
}

// FilterTransactions returns the entries matching the criteria, in
// input order. The input slice is never mutated.
func FilterTransactions(txs []Transaction, c Criteria) []Transaction {
	var out []Transaction
	title := strings.ToLower(strings.TrimSpace(c.Title))
	for _, tx := range txs {
		if title != "" && !strings.Contains(strings.ToLower(tx.Title), title) {
			continue
		}
		if c.Direction != "" && tx.Direction != c.Direction {
			continue
		}
		if c.CategoryID != AllCategories && tx.CategoryID != c.CategoryID {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SumByDirection sums the amounts of entries whose direction matches.
// An empty input sums to zero.
func SumByDirection(txs []Transaction, d Direction) Money {
	var total Money
	for _, tx := range txs {
		if tx.Direction == d {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// SumForCategoryInMonth sums the amounts of entries in the given
// category whose timestamp falls in the (month, year) bucket.
// categoryID of AllCategories matches every entry. Both directions are
// summed; callers that want expense-only consumption filter first.
// No matches sum to zero, never an error.
func SumForCategoryInMonth(txs []Transaction, categoryID int64, month, year int) Money {
	var total Money
	for _, tx := range txs {
		if categoryID != AllCategories && tx.CategoryID != categoryID {
			continue
		}
		m, y := MonthYearOf(tx.OccurredAt)
		if m != month || y != year {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// SumPerCategory groups entries by category reference and sums their
// amounts. Categories with no matching transactions are absent from
// the result, not present as zero.
func SumPerCategory(txs []Transaction) map[int64]Money {
	totals := make(map[int64]Money)
	for _, tx := range txs {
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}
	return totals
}

// NetForDay returns income minus expense for entries whose timestamp
// falls in [start, end).
func NetForDay(txs []Transaction, start, end time.Time) Money {
	var net Money
	for _, tx := range txs {
		if tx.OccurredAt.Before(start) || !tx.OccurredAt.Before(end) {
			continue
		}
		switch tx.Direction {
		case Income:
			net = net.Add(tx.Amount)
		case Expense:
			net = net.Sub(tx.Amount)
		}
	}
	return net
}
