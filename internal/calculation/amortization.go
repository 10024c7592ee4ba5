package calculation

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

func validateLoan(op string, params domain.LoanParameters) error {
	if !params.Principal.IsPositive() {
		return domain.InvalidArgument(op, "principal", "must be positive, got %s", params.Principal)
	}
	if params.Periods < 1 {
		return domain.InvalidArgument(op, "periods", "must be at least 1, got %d", params.Periods)
	}
	if params.PeriodicRate.IsNegative() {
		return domain.InvalidArgument(op, "periodicRate", "must not be negative, got %s", params.PeriodicRate)
	}
	return nil
}

// CalculateInstallment returns the level installment (EMI) of an amortizing loan:
//
//	EMI = P × r × (1+r)^n / ((1+r)^n - 1)   r > 0
//	EMI = P / n                             r == 0
func CalculateInstallment(params domain.LoanParameters) (decimal.Decimal, error) {
	if err := validateLoan("CalculateInstallment", params); err != nil {
		return decimal.Decimal{}, err
	}
	return installment(params), nil
}

func installment(params domain.LoanParameters) decimal.Decimal {
	n := decimal.NewFromInt(int64(params.Periods))
	r := params.PeriodicRate
	if r.IsZero() {
		return params.Principal.DivRound(n, WorkingPrecision)
	}
	factor := compoundFactor(r, params.Periods)
	return params.Principal.Mul(r).Mul(factor).DivRound(factor.Sub(decimalOne), WorkingPrecision)
}

// Amortize builds the full repayment schedule. The final period's principal portion is
// set to the outstanding balance, so the schedule always closes at exactly zero and its
// principal portions sum to the loan principal.
func Amortize(params domain.LoanParameters) (*domain.AmortizationSchedule, error) {
	if err := validateLoan("Amortize", params); err != nil {
		return nil, err
	}

	emi := installment(params)
	entries := make([]domain.AmortizationEntry, 0, params.Periods)
	balance := params.Principal
	totalPayment := decimalZero

	for i := 1; i <= params.Periods; i++ {
		interest := balance.Mul(params.PeriodicRate).Round(WorkingPrecision)
		principal := emi.Sub(interest)
		payment := emi

		if i == params.Periods {
			principal = balance
			payment = principal.Add(interest)
		} else if principal.GreaterThan(balance) {
			principal = balance
			payment = principal.Add(interest)
		}

		balance = balance.Sub(principal)
		totalPayment = totalPayment.Add(payment)
		entries = append(entries, domain.AmortizationEntry{
			PeriodIndex:      i,
			Installment:      payment,
			InterestPortion:  interest,
			PrincipalPortion: principal,
			RemainingBalance: balance,
		})
	}

	return &domain.AmortizationSchedule{
		Parameters:        params,
		InstallmentAmount: emi,
		TotalPayment:      totalPayment,
		TotalInterest:     totalPayment.Sub(params.Principal),
		Entries:           entries,
	}, nil
}
