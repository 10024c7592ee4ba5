package calculation

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// MinSavingsPercent is the savings rate a budget must reach to count as healthy
var MinSavingsPercent = decimal.NewFromInt(20)

const (
	verdictHealthy   = "Great! You're saving well."
	verdictOverspent = "Try to reduce expenses or increase income."
)

// AnalyzeBudget totals monthly expenses against income and splits income into expense
// and savings allocations. Savings percent is zero when income is zero.
func AnalyzeBudget(req domain.BudgetRequest) (*domain.BudgetAnalysis, error) {
	const op = "AnalyzeBudget"
	if req.MonthlyIncome.IsNegative() {
		return nil, domain.InvalidArgument(op, "monthlyIncome", "must not be negative, got %s", req.MonthlyIncome)
	}

	expenses := req.Expenses()
	total := decimalZero
	for _, e := range expenses {
		if e.Amount.IsNegative() {
			return nil, domain.InvalidArgument(op, e.Name, "must not be negative, got %s", e.Amount)
		}
		total = total.Add(e.Amount)
	}

	income := req.MonthlyIncome
	savings := income.Sub(total)
	share := func(amount decimal.Decimal) decimal.Decimal {
		if income.IsZero() {
			return decimalZero
		}
		return amount.DivRound(income, WorkingPrecision)
	}

	allocations := make([]domain.BudgetAllocation, 0, len(expenses)+1)
	for _, e := range expenses {
		allocations = append(allocations, domain.BudgetAllocation{
			Category:      domain.ExpenseCategory(e.Name),
			Amount:        e.Amount,
			ShareOfIncome: share(e.Amount),
		})
	}
	kept := decimal.Max(savings, decimalZero)
	allocations = append(allocations, domain.BudgetAllocation{
		Category:      domain.ExpenseSavings,
		Amount:        kept,
		ShareOfIncome: share(kept),
	})

	percent := share(savings).Mul(decimalHundred)
	meets := percent.GreaterThanOrEqual(MinSavingsPercent)
	verdict := verdictOverspent
	if meets {
		verdict = verdictHealthy
	}

	return &domain.BudgetAnalysis{
		Name:           req.Name,
		MonthlyIncome:  income,
		TotalExpenses:  total,
		Savings:        savings,
		SavingsPercent: percent,
		MeetsTarget:    meets,
		Verdict:        verdict,
		Allocations:    allocations,
	}, nil
}
