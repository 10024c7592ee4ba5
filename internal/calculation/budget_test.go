package calculation

import (
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetRequest(income, rent, food, transport, entertainment, other string) domain.BudgetRequest {
	return domain.BudgetRequest{
		MonthlyIncome: d(income),
		Rent:          d(rent),
		Food:          d(food),
		Transport:     d(transport),
		Entertainment: d(entertainment),
		Other:         d(other),
	}
}

func TestAnalyzeBudget(t *testing.T) {
	tests := []struct {
		name        string
		req         domain.BudgetRequest
		expenses    string
		savings     string
		percent     string
		meetsTarget bool
	}{
		{"healthy", budgetRequest("100000", "30000", "15000", "5000", "5000", "10000"), "65000", "35000", "35", true},
		{"exactly at threshold", budgetRequest("50000", "20000", "10000", "5000", "3000", "2000"), "40000", "10000", "20", true},
		{"below threshold", budgetRequest("60000", "25000", "12000", "6000", "5000", "3000"), "51000", "9000", "15", false},
		{"overspent", budgetRequest("40000", "25000", "10000", "5000", "4000", "1000"), "45000", "-5000", "-12.5", false},
		{"zero income", budgetRequest("0", "1000", "0", "0", "0", "0"), "1000", "-1000", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := AnalyzeBudget(tt.req)
			require.NoError(t, err)
			assert.True(t, b.TotalExpenses.Equal(d(tt.expenses)), "expenses %s", b.TotalExpenses)
			assert.True(t, b.Savings.Equal(d(tt.savings)), "savings %s", b.Savings)
			assert.True(t, b.SavingsPercent.Equal(d(tt.percent)), "percent %s", b.SavingsPercent)
			assert.Equal(t, tt.meetsTarget, b.MeetsTarget)
			if tt.meetsTarget {
				assert.Equal(t, verdictHealthy, b.Verdict)
			} else {
				assert.Equal(t, verdictOverspent, b.Verdict)
			}
		})
	}
}

func TestAnalyzeBudget_Allocations(t *testing.T) {
	b, err := AnalyzeBudget(budgetRequest("100000", "30000", "15000", "5000", "5000", "10000"))
	require.NoError(t, err)
	require.Len(t, b.Allocations, 6)

	total := decimalZero
	for _, a := range b.Allocations {
		total = total.Add(a.Amount)
	}
	assert.True(t, total.Equal(d("100000")), "allocations cover income, got %s", total)
	assert.Equal(t, domain.ExpenseRent, b.Allocations[0].Category)
	assert.True(t, b.Allocations[0].ShareOfIncome.Equal(d("0.3")))
	assert.Equal(t, domain.ExpenseSavings, b.Allocations[5].Category)

	overspent, err := AnalyzeBudget(budgetRequest("40000", "25000", "10000", "5000", "4000", "1000"))
	require.NoError(t, err)
	assert.True(t, overspent.Allocations[5].Amount.IsZero(), "savings slice is floored at zero")
}

func TestAnalyzeBudget_Errors(t *testing.T) {
	_, err := AnalyzeBudget(budgetRequest("-1", "0", "0", "0", "0", "0"))
	assert.True(t, domain.IsInvalidArgument(err))

	_, err = AnalyzeBudget(budgetRequest("50000", "0", "-10", "0", "0", "0"))
	require.Error(t, err)
	assert.True(t, domain.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "food")
}
