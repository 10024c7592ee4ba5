package domain

import (
	"github.com/shopspring/decimal"
)

// LoanParameters describes a level-installment (EMI) loan in per-period terms
type LoanParameters struct {
	Principal    decimal.Decimal `json:"principal" yaml:"principal"`
	Periods      int             `json:"periods" yaml:"periods"`
	PeriodicRate decimal.Decimal `json:"periodicRate" yaml:"periodic_rate"`
}

// AmortizationEntry is one period of a repayment schedule
type AmortizationEntry struct {
	PeriodIndex      int             `json:"periodIndex"`
	Installment      decimal.Decimal `json:"installment"`
	InterestPortion  decimal.Decimal `json:"interestPortion"`
	PrincipalPortion decimal.Decimal `json:"principalPortion"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// AmortizationSchedule is the full period-by-period breakdown of a loan
type AmortizationSchedule struct {
	Parameters        LoanParameters      `json:"parameters"`
	InstallmentAmount decimal.Decimal     `json:"installmentAmount"`
	TotalPayment      decimal.Decimal     `json:"totalPayment"`
	TotalInterest     decimal.Decimal     `json:"totalInterest"`
	Entries           []AmortizationEntry `json:"entries"`
}

// Downsample returns every n-th entry for charting. Period 1 and the final period
// are always included. n <= 1 returns a copy of the full schedule.
func (s *AmortizationSchedule) Downsample(every int) []AmortizationEntry {
	if len(s.Entries) == 0 {
		return nil
	}
	if every <= 1 {
		return append([]AmortizationEntry(nil), s.Entries...)
	}

	last := len(s.Entries) - 1
	sampled := []AmortizationEntry{s.Entries[0]}
	for i := every - 1; i < last; i += every {
		if i == 0 {
			continue
		}
		sampled = append(sampled, s.Entries[i])
	}
	if last > 0 {
		sampled = append(sampled, s.Entries[last])
	}
	return sampled
}

// SumPrincipal totals the principal portions across the schedule
func (s *AmortizationSchedule) SumPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		total = total.Add(e.PrincipalPortion)
	}
	return total
}

// FinalBalance returns the remaining balance after the last period
func (s *AmortizationSchedule) FinalBalance() decimal.Decimal {
	if len(s.Entries) == 0 {
		return s.Parameters.Principal
	}
	return s.Entries[len(s.Entries)-1].RemainingBalance
}
