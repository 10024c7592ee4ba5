package calculation

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

var minPeriodicRate = decimal.NewFromInt(-1)

// ProjectAnnuity simulates a SIP period by period. Each contribution is credited at the
// start of its period and compounds with it:
//
//	value[0] = 0
//	value[i] = (value[i-1] + contribution) × (1 + rate)
//
// The series holds one point per reporting interval and always ends with the final period.
func ProjectAnnuity(params domain.AnnuityParameters) (*domain.AnnuityProjection, error) {
	const op = "ProjectAnnuity"
	if params.PeriodicContribution.IsNegative() {
		return nil, domain.InvalidArgument(op, "periodicContribution", "must not be negative, got %s", params.PeriodicContribution)
	}
	if params.Periods < 1 {
		return nil, domain.InvalidArgument(op, "periods", "must be at least 1, got %d", params.Periods)
	}
	if params.PeriodicRate.LessThan(minPeriodicRate) {
		return nil, domain.InvalidArgument(op, "periodicRate", "must not be below -1, got %s", params.PeriodicRate)
	}

	interval := params.ReportingInterval()
	growth := decimalOne.Add(params.PeriodicRate)
	contribution := params.PeriodicContribution

	series := make([]domain.ProjectionPoint, 0, params.Periods/interval+1)
	value := decimalZero
	contributed := decimalZero
	for i := 1; i <= params.Periods; i++ {
		value = roundSignificant(value.Add(contribution).Mul(growth), significantDigits)
		contributed = contributed.Add(contribution)

		if i%interval == 0 || i == params.Periods {
			series = append(series, domain.ProjectionPoint{
				PeriodIndex:      i,
				AccumulatedValue: value,
				TotalContributed: contributed,
				Gain:             value.Sub(contributed),
			})
		}
	}

	return &domain.AnnuityProjection{
		Parameters:       params,
		FinalValue:       value,
		TotalContributed: contributed,
		TotalGain:        value.Sub(contributed),
		Series:           series,
	}, nil
}
