// Package tuimsg holds the messages scenes emit, kept apart from the tui package so
// that scenes can produce them without an import cycle.
package tuimsg

import (
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// Calculator identifies one of the calculator tabs
type Calculator int

const (
	CalcSIP Calculator = iota
	CalcGoal
	CalcLoan
	CalcTax
	CalcBudget
)

// Calculators lists every calculator in tab order
var Calculators = []Calculator{CalcSIP, CalcGoal, CalcLoan, CalcTax, CalcBudget}

func (c Calculator) String() string {
	switch c {
	case CalcSIP:
		return "SIP"
	case CalcGoal:
		return "Goal"
	case CalcLoan:
		return "Loan"
	case CalcTax:
		return "Tax"
	case CalcBudget:
		return "Budget"
	default:
		return "Unknown"
	}
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculateRequestedMsg asks the root model to run one calculation. Request holds a
// domain.SIPRequest, GoalRequest, LoanRequest, TaxRequest or BudgetRequest.
type CalculateRequestedMsg struct {
	Calculator Calculator
	Request    any
}

// CalculationCompleteMsg carries the engine response for a requested calculation
type CalculationCompleteMsg struct {
	Calculator Calculator
	Result     any
	Err        error
}

// EntrySelectedMsg loads a plan entry into the calculator scene
type EntrySelectedMsg struct {
	Calculator Calculator
	Request    any
}

// ComparisonStartedMsg asks for the base loan to be compared with templates
type ComparisonStartedMsg struct {
	Base      domain.LoanRequest
	Templates []string
}

// ComparisonCompleteMsg carries a finished loan comparison
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// SensitivityStartedMsg asks for a rate sweep
type SensitivityStartedMsg struct {
	Request domain.SensitivityRequest
}

// SensitivityCompleteMsg carries a finished rate sweep
type SensitivityCompleteMsg struct {
	Analysis *domain.SensitivityAnalysis
	Err      error
}
