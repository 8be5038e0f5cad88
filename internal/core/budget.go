package core

const (
	StatusWithinLimits Status = "WITHIN_LIMITS"
	StatusNearLimit    Status = "NEAR_LIMIT"
	StatusExceeded     Status = "EXCEEDED"
	StatusNoBudget     Status = "NO_BUDGET"
)

// Status classifies how far spending has eaten into a budget. It is
// derived on every evaluation and never persisted.
type Status string

// Evaluation is the result of checking one budget against a
// transaction snapshot. Ratio is the raw usage ratio and may exceed 1;
// Fraction is the same value clamped to [0, 1] for progress bars.
// Message is empty only for StatusNoBudget.
type Evaluation struct {
	Status   Status
	Spent    Money
	Limit    Money
	Ratio    float64
	Fraction float64
	Message  string
}

// EvaluateBudget classifies spending against a budget. A nil budget
// yields StatusNoBudget with no message. Income never counts against a
// budget: only expense-direction entries contribute to spend. Budgets
// with CategoryID AllCategories aggregate across every category for
// their month/year.
//
// The thresholds are exact in cents: a ratio of exactly 1.0 is
// NEAR_LIMIT and a ratio of exactly 0.9 is WITHIN_LIMITS. A budget
// whose amount is not positive fails with ErrInvalidBudget instead of
// dividing by zero.
func EvaluateBudget(budget *Budget, txs []Transaction) (Evaluation, error) {
	if budget == nil {
		return Evaluation{Status: StatusNoBudget}, nil
	}
	if budget.Amount.Cents <= 0 {
		return Evaluation{}, ErrInvalidBudget
	}

	expenses := FilterTransactions(txs, Criteria{Direction: Expense})
	spent := SumForCategoryInMonth(expenses, budget.CategoryID, budget.Month, budget.Year)

	ev := Evaluation{
		Spent: spent,
		Limit: budget.Amount,
		Ratio: float64(spent.Cents) / float64(budget.Amount.Cents),
	}
	ev.Fraction = ev.Ratio
	if ev.Fraction > 1 {
		ev.Fraction = 1
	} else if ev.Fraction < 0 {
		ev.Fraction = 0
	}

	switch {
	case spent.Cents > budget.Amount.Cents:
		ev.Status = StatusExceeded
		ev.Message = "Budget exceeded!"
	case spent.Cents*10 > budget.Amount.Cents*9:
		ev.Status = StatusNearLimit
		ev.Message = "Over 90% of budget used"
	default:
		ev.Status = StatusWithinLimits
		ev.Message = "Budget is within limits"
	}
	return ev, nil
}
