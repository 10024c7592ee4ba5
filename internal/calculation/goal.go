package calculation

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxInvestmentShare is the share of monthly income considered investable
var MaxInvestmentShare = decimal.NewFromFloat(0.40)

// SolveGoalContribution returns the level contribution that ProjectAnnuity grows to the
// target value over the given periods:
//
//	c = T / (((1+r)^n - 1) / r × (1+r))   r != 0
//	c = T / n                            r == 0
func SolveGoalContribution(params domain.GoalParameters) (decimal.Decimal, error) {
	const op = "SolveGoalContribution"
	if !params.TargetValue.IsPositive() {
		return decimal.Decimal{}, domain.InvalidArgument(op, "targetValue", "must be positive, got %s", params.TargetValue)
	}
	if params.Periods < 1 {
		return decimal.Decimal{}, domain.InvalidArgument(op, "periods", "must be at least 1, got %d", params.Periods)
	}
	if params.PeriodicRate.LessThanOrEqual(minPeriodicRate) {
		return decimal.Decimal{}, domain.DomainError(op, "periodic rate %s makes the annuity factor undefined", params.PeriodicRate)
	}

	n := decimal.NewFromInt(int64(params.Periods))
	r := params.PeriodicRate
	if r.IsZero() {
		return divSignificant(params.TargetValue, n), nil
	}

	factor := compoundFactor(r, params.Periods)
	annuityDue := factor.Sub(decimalOne).DivRound(r, factorPrecision).Mul(decimalOne.Add(r))
	if annuityDue.IsZero() {
		return decimal.Decimal{}, domain.DomainError(op, "annuity factor is zero for rate %s over %d periods", r, params.Periods)
	}
	return divSignificant(params.TargetValue, annuityDue), nil
}

// PlanGoal solves the contribution and projects it forward so the plan can be charted.
// A positive monthlyIncome adds an affordability verdict against MaxInvestmentShare.
func PlanGoal(params domain.GoalParameters, monthlyIncome decimal.Decimal) (*domain.GoalPlan, error) {
	if monthlyIncome.IsNegative() {
		return nil, domain.InvalidArgument("PlanGoal", "monthlyIncome", "must not be negative, got %s", monthlyIncome)
	}

	contribution, err := SolveGoalContribution(params)
	if err != nil {
		return nil, err
	}

	projection, err := ProjectAnnuity(domain.AnnuityParameters{
		PeriodicContribution: contribution,
		Periods:              params.Periods,
		PeriodicRate:         params.PeriodicRate,
	})
	if err != nil {
		return nil, err
	}

	plan := &domain.GoalPlan{
		Parameters:                   params,
		RequiredPeriodicContribution: contribution,
		TotalContributed:             projection.TotalContributed,
		Series:                       projection.Series,
	}
	if monthlyIncome.IsPositive() {
		plan.Affordability = AssessAffordability(contribution, monthlyIncome)
	}
	return plan, nil
}

// AssessAffordability compares a required monthly contribution with income
func AssessAffordability(contribution, monthlyIncome decimal.Decimal) *domain.Affordability {
	maxContribution := monthlyIncome.Mul(MaxInvestmentShare)
	a := &domain.Affordability{
		MonthlyIncome:   monthlyIncome,
		MaxContribution: maxContribution,
		Affordable:      contribution.LessThanOrEqual(maxContribution),
	}
	if monthlyIncome.IsPositive() {
		a.ShareOfIncome = contribution.DivRound(monthlyIncome, WorkingPrecision)
	}
	return a
}
