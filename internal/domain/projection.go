package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultPeriodsPerYear is the compounding and reporting frequency used when none is given
const DefaultPeriodsPerYear = 12

// AnnuityParameters describes a systematic investment plan (SIP) in per-period terms
type AnnuityParameters struct {
	PeriodicContribution decimal.Decimal `json:"periodicContribution" yaml:"periodic_contribution"`
	Periods              int             `json:"periods" yaml:"periods"`
	PeriodicRate         decimal.Decimal `json:"periodicRate" yaml:"periodic_rate"`      // fraction per period, e.g. 0.01
	PeriodsPerYear       int             `json:"periodsPerYear" yaml:"periods_per_year"` // reporting interval; 0 means DefaultPeriodsPerYear
}

// ReportingInterval returns the sampling interval for the projection series
func (p AnnuityParameters) ReportingInterval() int {
	if p.PeriodsPerYear <= 0 {
		return DefaultPeriodsPerYear
	}
	return p.PeriodsPerYear
}

// ProjectionPoint is one sample of an accumulating plan
type ProjectionPoint struct {
	PeriodIndex      int             `json:"periodIndex"`
	AccumulatedValue decimal.Decimal `json:"accumulatedValue"`
	TotalContributed decimal.Decimal `json:"totalContributed"`
	Gain             decimal.Decimal `json:"gain"` // AccumulatedValue - TotalContributed
}

// AnnuityProjection is the result of projecting a SIP forward
type AnnuityProjection struct {
	Parameters       AnnuityParameters `json:"parameters"`
	FinalValue       decimal.Decimal   `json:"finalValue"`
	TotalContributed decimal.Decimal   `json:"totalContributed"`
	TotalGain        decimal.Decimal   `json:"totalGain"`
	Series           []ProjectionPoint `json:"series"`
}

// Years returns the number of whole reporting intervals covered by the projection
func (ap *AnnuityProjection) Years() int {
	return ap.Parameters.Periods / ap.Parameters.ReportingInterval()
}

// GoalParameters describes a target sum to be reached by level contributions
type GoalParameters struct {
	TargetValue  decimal.Decimal `json:"targetValue" yaml:"target_value"`
	Periods      int             `json:"periods" yaml:"periods"`
	PeriodicRate decimal.Decimal `json:"periodicRate" yaml:"periodic_rate"`
}

// Affordability compares a required contribution with the investor's income
type Affordability struct {
	MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
	MaxContribution decimal.Decimal `json:"maxContribution"` // income share considered investable
	ShareOfIncome   decimal.Decimal `json:"shareOfIncome"`   // required / income
	Affordable      bool            `json:"affordable"`
}

// GoalPlan is the solved contribution plus the growth path that reaches the target
type GoalPlan struct {
	Parameters                   GoalParameters    `json:"parameters"`
	RequiredPeriodicContribution decimal.Decimal   `json:"requiredPeriodicContribution"`
	TotalContributed             decimal.Decimal   `json:"totalContributed"`
	Series                       []ProjectionPoint `json:"series"`
	Affordability                *Affordability    `json:"affordability,omitempty"`
}
