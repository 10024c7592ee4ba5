package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxYears bounds plan horizons; 50 years of monthly periods is 600 periods
const MaxYears = 50

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates plan data
func (ip *InputParser) Parse(data []byte) (*domain.PlanFile, error) {
	var plan domain.PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan validates every request in a plan
func (ip *InputParser) ValidatePlan(plan *domain.PlanFile) error {
	if plan.Len() == 0 {
		return fmt.Errorf("plan %q contains no calculations", plan.Name)
	}
	for i := range plan.SIPs {
		if err := ValidateSIPRequest(&plan.SIPs[i]); err != nil {
			return fmt.Errorf("sip %d: %w", i+1, err)
		}
	}
	for i := range plan.Goals {
		if err := ValidateGoalRequest(&plan.Goals[i]); err != nil {
			return fmt.Errorf("goal %d: %w", i+1, err)
		}
	}
	for i := range plan.Loans {
		if err := ValidateLoanRequest(&plan.Loans[i]); err != nil {
			return fmt.Errorf("loan %d: %w", i+1, err)
		}
	}
	for i := range plan.Taxes {
		if err := ValidateTaxRequest(&plan.Taxes[i]); err != nil {
			return fmt.Errorf("tax %d: %w", i+1, err)
		}
	}
	for i := range plan.Budgets {
		if err := ValidateBudgetRequest(&plan.Budgets[i]); err != nil {
			return fmt.Errorf("budget %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateSIPRequest checks boundary input for an annuity projection
func ValidateSIPRequest(r *domain.SIPRequest) error {
	if r.Contribution.IsNegative() {
		return domain.InvalidArgument("SIP", "contribution", "must not be negative, got %s", r.Contribution)
	}
	if err := validateYears("SIP", r.Years); err != nil {
		return err
	}
	if r.PeriodsPerYear < 0 {
		return domain.InvalidArgument("SIP", "periodsPerYear", "must not be negative, got %d", r.PeriodsPerYear)
	}
	return validateRate("SIP", r.AnnualRatePercent, true)
}

// ValidateGoalRequest checks boundary input for goal solving
func ValidateGoalRequest(r *domain.GoalRequest) error {
	if !r.TargetAmount.IsPositive() {
		return domain.InvalidArgument("Goal", "targetAmount", "must be positive, got %s", r.TargetAmount)
	}
	if r.MonthlyIncome.IsNegative() {
		return domain.InvalidArgument("Goal", "monthlyIncome", "must not be negative, got %s", r.MonthlyIncome)
	}
	if err := validateYears("Goal", r.Years); err != nil {
		return err
	}
	return validateRate("Goal", r.AnnualRatePercent, true)
}

// ValidateLoanRequest checks boundary input for loan amortization
func ValidateLoanRequest(r *domain.LoanRequest) error {
	if !r.Principal.IsPositive() {
		return domain.InvalidArgument("Loan", "principal", "must be positive, got %s", r.Principal)
	}
	if err := validateYears("Loan", r.Years); err != nil {
		return err
	}
	if r.Every < 0 {
		return domain.InvalidArgument("Loan", "every", "must not be negative, got %d", r.Every)
	}
	return validateRate("Loan", r.AnnualRatePercent, false)
}

// ValidateTaxRequest checks boundary input for regime comparison
func ValidateTaxRequest(r *domain.TaxRequest) error {
	for _, f := range r.Fields() {
		if f.Amount.IsNegative() {
			return domain.InvalidArgument("Tax", f.Name, "must not be negative, got %s", f.Amount)
		}
	}
	switch r.CurrentRegime {
	case "", domain.RegimeOld, domain.RegimeNew:
	default:
		return domain.InvalidArgument("Tax", "currentRegime", "unknown tax regime %q", string(r.CurrentRegime))
	}
	return nil
}

// ValidateBudgetRequest checks that income and every expense line are non-negative
func ValidateBudgetRequest(r *domain.BudgetRequest) error {
	if r.MonthlyIncome.IsNegative() {
		return domain.InvalidArgument("Budget", "monthlyIncome", "must not be negative, got %s", r.MonthlyIncome)
	}
	for _, e := range r.Expenses() {
		if e.Amount.IsNegative() {
			return domain.InvalidArgument("Budget", e.Name, "must not be negative, got %s", e.Amount)
		}
	}
	return nil
}

// ValidateComparisonRequest checks the base offer and every explicit alternative
func ValidateComparisonRequest(r *domain.LoanComparisonRequest) error {
	if err := ValidateLoanRequest(&r.Base); err != nil {
		return fmt.Errorf("base offer: %w", err)
	}
	for i := range r.Alternatives {
		if err := ValidateLoanRequest(&r.Alternatives[i]); err != nil {
			return fmt.Errorf("offer %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateSensitivityRequest checks the target, amount and horizon of a rate sweep.
// The sweep bounds are checked when the sweep is expanded.
func ValidateSensitivityRequest(r *domain.SensitivityRequest) error {
	if _, err := domain.ParseSensitivityTarget(string(r.Target)); err != nil {
		return domain.InvalidArgument("Sensitivity", "target", "%v", err)
	}
	if r.Target == domain.SensitivitySIP {
		if r.Amount.IsNegative() {
			return domain.InvalidArgument("Sensitivity", "amount", "must not be negative, got %s", r.Amount)
		}
	} else if !r.Amount.IsPositive() {
		return domain.InvalidArgument("Sensitivity", "amount", "must be positive, got %s", r.Amount)
	}
	if err := validateYears("Sensitivity", r.Years); err != nil {
		return err
	}
	return validateRate("Sensitivity", r.BaseRatePercent, r.Target != domain.SensitivityLoan)
}

func validateYears(op string, years int) error {
	if years < 1 || years > MaxYears {
		return domain.InvalidArgument(op, "years", "must be between 1 and %d, got %d", MaxYears, years)
	}
	return nil
}

var maxAnnualRatePercent = decimal.NewFromInt(100)

func validateRate(op string, percent decimal.Decimal, allowNegative bool) error {
	if percent.IsNegative() && !allowNegative {
		return domain.InvalidArgument(op, "annualRatePercent", "must not be negative, got %s", percent)
	}
	if percent.Abs().GreaterThan(maxAnnualRatePercent) {
		return domain.InvalidArgument(op, "annualRatePercent", "must be within ±%s%%, got %s", maxAnnualRatePercent, percent)
	}
	return nil
}
