package domain

import (
	"github.com/shopspring/decimal"
)

// SIPRequest is the boundary input for an annuity projection
type SIPRequest struct {
	Name              string          `json:"name,omitempty" yaml:"name,omitempty"`
	Contribution      decimal.Decimal `json:"contribution" yaml:"contribution"`
	Years             int             `json:"years" yaml:"years"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent" yaml:"annual_rate_percent"`
	PeriodsPerYear    int             `json:"periodsPerYear,omitempty" yaml:"periods_per_year,omitempty"`
}

// SIPResponse is the boundary output of an annuity projection
type SIPResponse struct {
	Name             string            `json:"name,omitempty"`
	FinalValue       decimal.Decimal   `json:"finalValue"`
	TotalContributed decimal.Decimal   `json:"totalContributed"`
	TotalGain        decimal.Decimal   `json:"totalGain"`
	Series           []ProjectionPoint `json:"series"`
}

// GoalRequest is the boundary input for goal solving.
// MonthlyIncome is optional; when positive the response carries an affordability verdict.
type GoalRequest struct {
	Name              string          `json:"name,omitempty" yaml:"name,omitempty"`
	TargetAmount      decimal.Decimal `json:"targetAmount" yaml:"target_amount"`
	Years             int             `json:"years" yaml:"years"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent" yaml:"annual_rate_percent"`
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome,omitempty" yaml:"monthly_income,omitempty"`
}

// GoalResponse is the boundary output of goal solving
type GoalResponse struct {
	Name                 string            `json:"name,omitempty"`
	RequiredContribution decimal.Decimal   `json:"requiredContribution"`
	TotalContributed     decimal.Decimal   `json:"totalContributed"`
	Series               []ProjectionPoint `json:"series,omitempty"`
	Affordability        *Affordability    `json:"affordability,omitempty"`
}

// LoanRequest is the boundary input for loan amortization
type LoanRequest struct {
	Name              string          `json:"name,omitempty" yaml:"name,omitempty"`
	Principal         decimal.Decimal `json:"principal" yaml:"principal"`
	Years             int             `json:"years" yaml:"years"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent" yaml:"annual_rate_percent"`
	Every             int             `json:"every,omitempty" yaml:"every,omitempty"` // downsample interval for the schedule; 0 or 1 returns every period
}

// LoanResponse is the boundary output of loan amortization
type LoanResponse struct {
	Name          string              `json:"name,omitempty"`
	Installment   decimal.Decimal     `json:"installment"`
	TotalPayment  decimal.Decimal     `json:"totalPayment"`
	TotalInterest decimal.Decimal     `json:"totalInterest"`
	Schedule      []AmortizationEntry `json:"schedule"`
}

// TaxRequest is the boundary input for regime comparison
type TaxRequest struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	CurrentRegime Regime `json:"currentRegime,omitempty" yaml:"current_regime,omitempty"` // optional
	TaxScenario   `yaml:",inline"`
}

// TaxResponse is the boundary output of regime comparison
type TaxResponse struct {
	Name              string          `json:"name,omitempty"`
	OldRegime         RegimeOutcome   `json:"oldRegime"`
	NewRegime         RegimeOutcome   `json:"newRegime"`
	RecommendedRegime Regime          `json:"recommendedRegime"`
	Savings           decimal.Decimal `json:"savings"`
	Suggestions       []string        `json:"suggestions"`
	RulesVersion      string          `json:"rulesVersion"`

	// Set only when the request names the regime the taxpayer is on
	CurrentRegime Regime           `json:"currentRegime,omitempty"`
	SwitchSavings *decimal.Decimal `json:"switchSavings,omitempty"`
}

// PlanFile is a batch of calculations read from disk by the run command
type PlanFile struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       string          `json:"rules,omitempty" yaml:"rules,omitempty"` // rule table version or path
	SIPs        []SIPRequest    `json:"sips,omitempty" yaml:"sips,omitempty"`
	Goals       []GoalRequest   `json:"goals,omitempty" yaml:"goals,omitempty"`
	Loans       []LoanRequest   `json:"loans,omitempty" yaml:"loans,omitempty"`
	Taxes       []TaxRequest    `json:"taxes,omitempty" yaml:"taxes,omitempty"`
	Budgets     []BudgetRequest `json:"budgets,omitempty" yaml:"budgets,omitempty"`
}

// Len returns the number of calculations in the plan
func (p *PlanFile) Len() int {
	return len(p.SIPs) + len(p.Goals) + len(p.Loans) + len(p.Taxes) + len(p.Budgets)
}

// PlanResult collects the responses of a plan run, in plan order per kind
type PlanResult struct {
	Name    string           `json:"name"`
	SIPs    []SIPResponse    `json:"sips,omitempty"`
	Goals   []GoalResponse   `json:"goals,omitempty"`
	Loans   []LoanResponse   `json:"loans,omitempty"`
	Taxes   []TaxResponse    `json:"taxes,omitempty"`
	Budgets []BudgetAnalysis `json:"budgets,omitempty"`
}

// LoanComparisonRequest compares a base loan offer against explicit alternatives and
// named what-if templates applied to the base
type LoanComparisonRequest struct {
	Base         LoanRequest   `json:"base" yaml:"base"`
	Alternatives []LoanRequest `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Templates    []string      `json:"templates,omitempty" yaml:"templates,omitempty"`
}
