package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SensitivityTarget names the calculation whose output is swept
type SensitivityTarget string

const (
	SensitivitySIP  SensitivityTarget = "sip"
	SensitivityGoal SensitivityTarget = "goal"
	SensitivityLoan SensitivityTarget = "loan"
)

// ParseSensitivityTarget validates a target name
func ParseSensitivityTarget(s string) (SensitivityTarget, error) {
	switch t := SensitivityTarget(s); t {
	case SensitivitySIP, SensitivityGoal, SensitivityLoan:
		return t, nil
	default:
		return "", fmt.Errorf("unknown sensitivity target %q (expected sip, goal or loan)", s)
	}
}

// RateSweep describes the range of annual percentage rates to evaluate
type RateSweep struct {
	MinPercent  decimal.Decimal `yaml:"min_percent" json:"minPercent"`
	MaxPercent  decimal.Decimal `yaml:"max_percent" json:"maxPercent"`
	StepPercent decimal.Decimal `yaml:"step_percent" json:"stepPercent"`
}

// MaxSweepPoints bounds the number of rates a single sweep may evaluate
const MaxSweepPoints = 500

// Rates expands the sweep into an ascending list of annual percentages.
// The maximum is always included even when the step does not land on it.
func (s RateSweep) Rates() ([]decimal.Decimal, error) {
	if s.StepPercent.LessThanOrEqual(decimal.Zero) {
		return nil, InvalidArgument("RateSweep", "stepPercent", "must be positive, got %s", s.StepPercent)
	}
	if s.MaxPercent.LessThan(s.MinPercent) {
		return nil, InvalidArgument("RateSweep", "maxPercent", "must not be below minPercent (%s < %s)", s.MaxPercent, s.MinPercent)
	}

	var rates []decimal.Decimal
	for r := s.MinPercent; r.LessThanOrEqual(s.MaxPercent); r = r.Add(s.StepPercent) {
		rates = append(rates, r)
		if len(rates) > MaxSweepPoints {
			return nil, InvalidArgument("RateSweep", "stepPercent", "sweep would evaluate more than %d rates", MaxSweepPoints)
		}
	}
	if !rates[len(rates)-1].Equal(s.MaxPercent) {
		rates = append(rates, s.MaxPercent)
	}
	return rates, nil
}

// SensitivityRequest asks for one calculation to be repeated across a rate sweep
type SensitivityRequest struct {
	Target          SensitivityTarget `yaml:"target" json:"target"`
	Amount          decimal.Decimal   `yaml:"amount" json:"amount"` // contribution, target or principal
	Years           int               `yaml:"years" json:"years"`
	BaseRatePercent decimal.Decimal   `yaml:"base_rate_percent" json:"baseRatePercent"`
	Sweep           RateSweep         `yaml:"sweep" json:"sweep"`
}

// SensitivityPoint is the outcome at one swept rate
type SensitivityPoint struct {
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	PeriodicRate      decimal.Decimal `json:"periodicRate"`
	Value             decimal.Decimal `json:"value"`                   // final value, required contribution or installment
	TotalInterest     decimal.Decimal `json:"totalInterest,omitempty"` // loans only
	ChangeFromBase    decimal.Decimal `json:"changeFromBase"`
	ChangeFromBasePct decimal.Decimal `json:"changeFromBasePct"`
}

// SensitivityAnalysis is an ordered rate sweep for one calculation
type SensitivityAnalysis struct {
	Target          SensitivityTarget  `json:"target"`
	Amount          decimal.Decimal    `json:"amount"` // contribution, target or principal
	Years           int                `json:"years"`
	BaseRatePercent decimal.Decimal    `json:"baseRatePercent"`
	BaseValue       decimal.Decimal    `json:"baseValue"`
	Points          []SensitivityPoint `json:"points"`
	Summary         SensitivitySummary `json:"summary"`
}

// SensitivitySummary reports the spread of values across the sweep
type SensitivitySummary struct {
	MinValue    decimal.Decimal `json:"minValue"`
	MaxValue    decimal.Decimal `json:"maxValue"`
	Range       decimal.Decimal `json:"range"`
	RangePct    decimal.Decimal `json:"rangePct"`    // range relative to the base value
	Sensitivity string          `json:"sensitivity"` // "LOW", "MEDIUM", "HIGH"
}
