package calculation

import (
	"math/big"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// WorkingPrecision is the number of decimal places kept by iterative steps
const WorkingPrecision int32 = 10

// factorPrecision is used for compound factors and closed-form divisions
const factorPrecision int32 = 20

// significantDigits bounds running values by relative rather than absolute precision
const significantDigits int32 = 28

var (
	decimalZero    = decimal.Zero
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// PeriodicRate converts an annual percentage (12 meaning 12%) to a per-period fraction
func PeriodicRate(annualPercent decimal.Decimal, periodsPerYear int) decimal.Decimal {
	if periodsPerYear <= 0 {
		periodsPerYear = domain.DefaultPeriodsPerYear
	}
	return annualPercent.DivRound(decimalHundred.Mul(decimal.NewFromInt(int64(periodsPerYear))), factorPrecision)
}

// Periods returns years × periodsPerYear
func Periods(years, periodsPerYear int) int {
	if periodsPerYear <= 0 {
		periodsPerYear = domain.DefaultPeriodsPerYear
	}
	return years * periodsPerYear
}

// compoundFactor returns (1+r)^n by repeated squaring, rounding each product
func compoundFactor(r decimal.Decimal, n int) decimal.Decimal {
	result := decimalOne
	base := decimalOne.Add(r)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(factorPrecision)
		}
		base = base.Mul(base).Round(factorPrecision)
		n >>= 1
	}
	return result
}

// roundSignificant rounds d to the given number of significant digits, keeping at least
// WorkingPrecision decimal places
func roundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	coefficientDigits := int32(len(new(big.Int).Abs(d.Coefficient()).String()))
	places := digits - (coefficientDigits + d.Exponent())
	return d.Round(max(places, WorkingPrecision))
}

// divSignificant returns a/b rounded to significantDigits
func divSignificant(a, b decimal.Decimal) decimal.Decimal {
	q := a.DivRound(b, 2*significantDigits)
	return roundSignificant(q, significantDigits)
}
