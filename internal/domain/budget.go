package domain

import (
	"github.com/shopspring/decimal"
)

// ExpenseCategory names one line of a monthly budget
type ExpenseCategory string

const (
	ExpenseRent          ExpenseCategory = "rent"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseOther         ExpenseCategory = "other"
	ExpenseSavings       ExpenseCategory = "savings"
)

// BudgetRequest is the boundary input for a monthly budget review
type BudgetRequest struct {
	Name          string          `json:"name,omitempty" yaml:"name,omitempty"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome" yaml:"monthly_income"`
	Rent          decimal.Decimal `json:"rent" yaml:"rent"`
	Food          decimal.Decimal `json:"food" yaml:"food"`
	Transport     decimal.Decimal `json:"transport" yaml:"transport"`
	Entertainment decimal.Decimal `json:"entertainment" yaml:"entertainment"`
	Other         decimal.Decimal `json:"other" yaml:"other"`
}

// Expenses lists the expense lines in display order
func (r BudgetRequest) Expenses() []NamedAmount {
	return []NamedAmount{
		{Name: string(ExpenseRent), Amount: r.Rent},
		{Name: string(ExpenseFood), Amount: r.Food},
		{Name: string(ExpenseTransport), Amount: r.Transport},
		{Name: string(ExpenseEntertainment), Amount: r.Entertainment},
		{Name: string(ExpenseOther), Amount: r.Other},
	}
}

// BudgetAllocation is one slice of income: an expense line or what is left as savings
type BudgetAllocation struct {
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	ShareOfIncome decimal.Decimal `json:"shareOfIncome"` // fraction, zero when income is zero
}

// BudgetAnalysis is the boundary output of a budget review.
// Savings is negative when expenses exceed income; the savings allocation is floored at zero.
type BudgetAnalysis struct {
	Name           string             `json:"name,omitempty"`
	MonthlyIncome  decimal.Decimal    `json:"monthlyIncome"`
	TotalExpenses  decimal.Decimal    `json:"totalExpenses"`
	Savings        decimal.Decimal    `json:"savings"`
	SavingsPercent decimal.Decimal    `json:"savingsPercent"`
	MeetsTarget    bool               `json:"meetsTarget"`
	Verdict        string             `json:"verdict"`
	Allocations    []BudgetAllocation `json:"allocations"`
}
