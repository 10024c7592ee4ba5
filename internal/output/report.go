package output

import (
	"time"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// Report bundles calculation results for rendering. Any combination of sections may be set.
type Report struct {
	Title        string    `json:"title" yaml:"title"`
	GeneratedAt  time.Time `json:"generatedAt" yaml:"generated_at"`
	RulesVersion string    `json:"rulesVersion,omitempty" yaml:"rules_version,omitempty"`

	SIPs        []domain.SIPResponse        `json:"sips,omitempty" yaml:"sips,omitempty"`
	Goals       []domain.GoalResponse       `json:"goals,omitempty" yaml:"goals,omitempty"`
	Loans       []domain.LoanResponse       `json:"loans,omitempty" yaml:"loans,omitempty"`
	Taxes       []domain.TaxResponse        `json:"taxes,omitempty" yaml:"taxes,omitempty"`
	Budgets     []domain.BudgetAnalysis     `json:"budgets,omitempty" yaml:"budgets,omitempty"`
	Comparison  *compare.ComparisonSet      `json:"comparison,omitempty" yaml:"comparison,omitempty"`
	Sensitivity *domain.SensitivityAnalysis `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
	Advice      *advice.Envelope            `json:"advice,omitempty" yaml:"advice,omitempty"`
}

// NewReport creates an empty report stamped with the current time
func NewReport(title string) *Report {
	return &Report{Title: title, GeneratedAt: time.Now()}
}

// ReportFromPlan creates a report holding every response of a plan run
func ReportFromPlan(result *domain.PlanResult, rulesVersion string) *Report {
	r := NewReport(result.Name)
	r.RulesVersion = rulesVersion
	r.SIPs = result.SIPs
	r.Goals = result.Goals
	r.Loans = result.Loans
	r.Taxes = result.Taxes
	r.Budgets = result.Budgets
	return r
}

// IsEmpty reports whether the report has no sections
func (r *Report) IsEmpty() bool {
	return len(r.SIPs) == 0 && len(r.Goals) == 0 && len(r.Loans) == 0 && len(r.Taxes) == 0 && len(r.Budgets) == 0 &&
		r.Comparison == nil && r.Sensitivity == nil && r.Advice == nil
}
