package core

import (
	"sort"
	"time"
)

type (
	// SeriesPoint is one day of the trailing net-balance series.
	SeriesPoint struct {
		Day        time.Time
		Label      string // "MM/dd", chart axis label
		Net        Money
		Cumulative Money
	}

	// MonthTotals holds one calendar month's income and expense sums.
	MonthTotals struct {
		Income  Money
		Expense Money
	}

	// CategoryAmount is one slice of a per-category breakdown.
	CategoryAmount struct {
		Name  string
		Total Money
	}
)

// TrailingCumulativeNet computes the per-day net balance for the
// windowDays trailing calendar days ending at anchor's day, oldest
// first, then the running sum across the window. The first point's
// cumulative value equals its own net. Reads only; calling twice with
// the same inputs yields identical output.
func TrailingCumulativeNet(txs []Transaction, windowDays int, anchor time.Time) []SeriesPoint {
	days := TrailingDays(windowDays, anchor)
	points := make([]SeriesPoint, len(days))
	var running Money
	for i, day := range days {
		start, end := DayBounds(day)
		net := NetForDay(txs, start, end)
		running = running.Add(net)
		points[i] = SeriesPoint{
			Day:        day,
			Label:      day.Format("01/02"),
			Net:        net,
			Cumulative: running,
		}
	}
	return points
}

// MonthlyIncomeExpense sums income and expense per calendar month for
// entries whose year bucket equals year. The result always has twelve
// slots, January first; a year with no transactions yields twelve
// zero pairs.
func MonthlyIncomeExpense(txs []Transaction, year int) []MonthTotals {
	months := make([]MonthTotals, 12)
	for _, tx := range txs {
		m, y := MonthYearOf(tx.OccurredAt)
		if y != year {
			continue
		}
		switch tx.Direction {
		case Income:
			months[m-1].Income = months[m-1].Income.Add(tx.Amount)
		case Expense:
			months[m-1].Expense = months[m-1].Expense.Add(tx.Amount)
		}
	}
	return months
}

// CategoryBreakdown groups entries of the given direction by category
// and joins the totals against category names. Entries whose category
// cannot be resolved are dropped silently. The result is ordered by
// total descending, then name ascending, so repeated renders are
// stable.
func CategoryBreakdown(txs []Transaction, categories []Category, d Direction) []CategoryAmount {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	totals := SumPerCategory(FilterTransactions(txs, Criteria{Direction: d}))
	out := make([]CategoryAmount, 0, len(totals))
	for id, total := range totals {
		name, ok := names[id]
		if !ok {
			continue
		}
		out = append(out, CategoryAmount{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
