package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// CalculationEngine is the single entry point the CLI, HTTP API and TUI use for every
// projection. It converts boundary requests to per-period parameters and delegates to
// the pure calculators in this package.
type CalculationEngine struct {
	TaxComparator *TaxComparator
	Logger        Logger
	Debug         bool // log intermediate figures
}

// NewCalculationEngine creates an engine whose tax comparisons use the given rule table.
// A nil table leaves tax comparison unavailable; the other calculations still work.
func NewCalculationEngine(rules *domain.TaxRuleTable) (*CalculationEngine, error) {
	ce := &CalculationEngine{Logger: NopLogger{}}
	if rules != nil {
		tc, err := NewTaxComparator(rules)
		if err != nil {
			return nil, err
		}
		ce.TaxComparator = tc
	}
	return ce, nil
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	if ce.TaxComparator != nil {
		ce.TaxComparator.Logger = l
	}
}

// RulesVersion returns the version of the loaded rule table, or "" when none is loaded
func (ce *CalculationEngine) RulesVersion() string {
	if ce.TaxComparator == nil {
		return ""
	}
	return ce.TaxComparator.Rules.Metadata.Version
}

// SIP projects a systematic investment plan from annual terms
func (ce *CalculationEngine) SIP(req domain.SIPRequest) (*domain.SIPResponse, error) {
	if req.Years < 1 {
		return nil, domain.InvalidArgument("SIP", "years", "must be at least 1, got %d", req.Years)
	}
	params := domain.AnnuityParameters{
		PeriodicContribution: req.Contribution,
		Periods:              Periods(req.Years, req.PeriodsPerYear),
		PeriodicRate:         PeriodicRate(req.AnnualRatePercent, req.PeriodsPerYear),
		PeriodsPerYear:       req.PeriodsPerYear,
	}
	projection, err := ProjectAnnuity(params)
	if err != nil {
		return nil, err
	}
	if ce.Debug {
		ce.Logger.Debugf("SIP %s × %d at %s per period: final=%s contributed=%s",
			params.PeriodicContribution, params.Periods, params.PeriodicRate,
			projection.FinalValue.StringFixed(2), projection.TotalContributed.StringFixed(2))
	}
	return &domain.SIPResponse{
		Name:             req.Name,
		FinalValue:       projection.FinalValue,
		TotalContributed: projection.TotalContributed,
		TotalGain:        projection.TotalGain,
		Series:           projection.Series,
	}, nil
}

// Goal solves the monthly contribution needed to reach a target amount
func (ce *CalculationEngine) Goal(req domain.GoalRequest) (*domain.GoalResponse, error) {
	if req.Years < 1 {
		return nil, domain.InvalidArgument("Goal", "years", "must be at least 1, got %d", req.Years)
	}
	params := domain.GoalParameters{
		TargetValue:  req.TargetAmount,
		Periods:      Periods(req.Years, domain.DefaultPeriodsPerYear),
		PeriodicRate: PeriodicRate(req.AnnualRatePercent, domain.DefaultPeriodsPerYear),
	}
	plan, err := PlanGoal(params, req.MonthlyIncome)
	if err != nil {
		return nil, err
	}
	if ce.Debug {
		ce.Logger.Debugf("goal %s over %d periods at %s: contribution=%s",
			params.TargetValue, params.Periods, params.PeriodicRate, plan.RequiredPeriodicContribution.StringFixed(2))
	}
	return &domain.GoalResponse{
		Name:                 req.Name,
		RequiredContribution: plan.RequiredPeriodicContribution,
		TotalContributed:     plan.TotalContributed,
		Series:               plan.Series,
		Affordability:        plan.Affordability,
	}, nil
}

// Loan amortizes a loan given in annual terms, optionally downsampling the schedule
func (ce *CalculationEngine) Loan(req domain.LoanRequest) (*domain.LoanResponse, error) {
	if req.Years < 1 {
		return nil, domain.InvalidArgument("Loan", "years", "must be at least 1, got %d", req.Years)
	}
	if req.Every < 0 {
		return nil, domain.InvalidArgument("Loan", "every", "must not be negative, got %d", req.Every)
	}
	params := domain.LoanParameters{
		Principal:    req.Principal,
		Periods:      Periods(req.Years, domain.DefaultPeriodsPerYear),
		PeriodicRate: PeriodicRate(req.AnnualRatePercent, domain.DefaultPeriodsPerYear),
	}
	schedule, err := Amortize(params)
	if err != nil {
		return nil, err
	}
	if ce.Debug {
		ce.Logger.Debugf("loan %s over %d periods at %s: emi=%s interest=%s",
			params.Principal, params.Periods, params.PeriodicRate,
			schedule.InstallmentAmount.StringFixed(2), schedule.TotalInterest.StringFixed(2))
	}
	return &domain.LoanResponse{
		Name:          req.Name,
		Installment:   schedule.InstallmentAmount,
		TotalPayment:  schedule.TotalPayment,
		TotalInterest: schedule.TotalInterest,
		Schedule:      schedule.Downsample(req.Every),
	}, nil
}

// Tax compares the old and new regimes for a salaried taxpayer
func (ce *CalculationEngine) Tax(req domain.TaxRequest) (*domain.TaxResponse, error) {
	if ce.TaxComparator == nil {
		return nil, fmt.Errorf("tax comparison unavailable: no rule table loaded")
	}
	result, err := ce.TaxComparator.Compare(req.TaxScenario)
	if err != nil {
		return nil, err
	}
	resp := &domain.TaxResponse{
		Name:              req.Name,
		OldRegime:         result.Old,
		NewRegime:         result.New,
		RecommendedRegime: result.RecommendedRegime,
		Savings:           result.Savings,
		Suggestions:       result.Suggestions,
		RulesVersion:      result.RulesVersion,
	}
	if req.CurrentRegime != "" {
		switchSavings := result.SwitchSavings(req.CurrentRegime)
		resp.CurrentRegime = req.CurrentRegime
		resp.SwitchSavings = &switchSavings
	}
	return resp, nil
}

// Budget reviews a month of income and expenses
func (ce *CalculationEngine) Budget(req domain.BudgetRequest) (*domain.BudgetAnalysis, error) {
	analysis, err := AnalyzeBudget(req)
	if err != nil {
		return nil, err
	}
	if ce.Debug {
		ce.Logger.Debugf("budget %s: expenses=%s savings=%s (%s%%)", label(0, req.Name),
			analysis.TotalExpenses.StringFixed(2), analysis.Savings.StringFixed(2), analysis.SavingsPercent.StringFixed(1))
	}
	return analysis, nil
}

// RunPlan evaluates every calculation in a plan file. It stops at the first failure and
// returns no partial result.
func (ce *CalculationEngine) RunPlan(ctx context.Context, plan *domain.PlanFile) (*domain.PlanResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}
	result := &domain.PlanResult{Name: plan.Name}

	for i, req := range plan.SIPs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ce.SIP(req)
		if err != nil {
			return nil, fmt.Errorf("sip %s: %w", label(i, req.Name), err)
		}
		result.SIPs = append(result.SIPs, *resp)
	}
	for i, req := range plan.Goals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ce.Goal(req)
		if err != nil {
			return nil, fmt.Errorf("goal %s: %w", label(i, req.Name), err)
		}
		result.Goals = append(result.Goals, *resp)
	}
	for i, req := range plan.Loans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ce.Loan(req)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", label(i, req.Name), err)
		}
		result.Loans = append(result.Loans, *resp)
	}
	for i, req := range plan.Taxes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ce.Tax(req)
		if err != nil {
			return nil, fmt.Errorf("tax %s: %w", label(i, req.Name), err)
		}
		result.Taxes = append(result.Taxes, *resp)
	}
	for i, req := range plan.Budgets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ce.Budget(req)
		if err != nil {
			return nil, fmt.Errorf("budget %s: %w", label(i, req.Name), err)
		}
		result.Budgets = append(result.Budgets, *resp)
	}

	ce.Logger.Infof("plan %q: %d calculations completed", plan.Name, plan.Len())
	return result, nil
}

func label(i int, name string) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("#%d", i+1)
}
