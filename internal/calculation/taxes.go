package calculation

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// AlreadyOptimizedSuggestion is returned when no deduction rule applies
const AlreadyOptimizedSuggestion = "You are already utilizing most major tax benefits!"

// TaxComparator computes liability under the old and new regimes of a rule table
type TaxComparator struct {
	Rules  *domain.TaxRuleTable
	Logger Logger
}

// NewTaxComparator creates a comparator over a loaded rule table
func NewTaxComparator(rules *domain.TaxRuleTable) (*TaxComparator, error) {
	if rules == nil {
		return nil, fmt.Errorf("tax comparator requires a rule table")
	}
	for _, r := range []domain.Regime{domain.RegimeOld, domain.RegimeNew} {
		if _, ok := rules.Regime(r); !ok {
			return nil, fmt.Errorf("rule table %q has no %s regime", rules.Metadata.Version, r)
		}
	}
	return &TaxComparator{Rules: rules, Logger: NopLogger{}}, nil
}

// Compare computes both regime outcomes and recommends the one with strictly lower
// liability. Equal liability recommends the new regime.
func (tc *TaxComparator) Compare(s domain.TaxScenario) (*domain.TaxComparisonResult, error) {
	for _, f := range s.Fields() {
		if f.Amount.IsNegative() {
			return nil, domain.InvalidArgument("CompareTaxRegimes", f.Name, "must not be negative, got %s", f.Amount)
		}
	}

	oldRules, _ := tc.Rules.Regime(domain.RegimeOld)
	newRules, _ := tc.Rules.Regime(domain.RegimeNew)
	oldOutcome := tc.outcome(domain.RegimeOld, oldRules, s)
	newOutcome := tc.outcome(domain.RegimeNew, newRules, s)

	recommended := domain.RegimeNew
	if oldOutcome.TaxPayable.LessThan(newOutcome.TaxPayable) {
		recommended = domain.RegimeOld
	}

	tc.logger().Debugf("tax comparison (%s): old taxable=%s tax=%s, new taxable=%s tax=%s, recommended=%s",
		tc.Rules.Metadata.Version, oldOutcome.TaxableIncome, oldOutcome.TaxPayable,
		newOutcome.TaxableIncome, newOutcome.TaxPayable, recommended)

	return &domain.TaxComparisonResult{
		Scenario:          s,
		Old:               oldOutcome,
		New:               newOutcome,
		RecommendedRegime: recommended,
		Savings:           oldOutcome.TaxPayable.Sub(newOutcome.TaxPayable).Abs(),
		Suggestions:       Suggestions(s, tc.Rules),
		RulesVersion:      tc.Rules.Metadata.Version,
	}, nil
}

func (tc *TaxComparator) logger() Logger {
	if tc.Logger == nil {
		return NopLogger{}
	}
	return tc.Logger
}

func (tc *TaxComparator) outcome(regime domain.Regime, rules domain.RegimeRules, s domain.TaxScenario) domain.RegimeOutcome {
	out := domain.RegimeOutcome{
		Regime:            regime,
		StandardDeduction: rules.StandardDeduction,
	}

	taxable := s.GrossIncome.Sub(rules.StandardDeduction)
	if rules.AllowsExemptions {
		out.HRAExemption = HRAExemption(s, tc.Rules.HRA)
		out.Deductions = decimal.Min(s.Section80C, tc.Rules.Deductions.Section80C).
			Add(decimal.Min(s.Section80D, tc.Rules.Deductions.Section80D))
		taxable = taxable.Sub(out.HRAExemption).Sub(out.Deductions)
	}
	if taxable.IsNegative() {
		taxable = decimalZero
	}
	out.TaxableIncome = taxable
	out.MarginalRate = MarginalRate(taxable, rules.Slabs)

	tax := CalculateSlabTax(taxable, rules.Slabs)
	if rules.RebateThreshold.IsPositive() && taxable.LessThanOrEqual(rules.RebateThreshold) && tax.IsPositive() {
		tax = decimalZero
		out.RebateApplied = true
	}
	out.TaxBeforeCess = tax
	out.Cess = tax.Mul(rules.CessRate)
	out.TaxPayable = tax.Add(out.Cess)
	return out
}

// CalculateSlabTax applies a progressive slab schedule:
// tax = Σ rate × max(0, min(taxable, upper) - lower)
func CalculateSlabTax(taxable decimal.Decimal, slabs []domain.TaxSlab) decimal.Decimal {
	total := decimalZero
	for _, slab := range slabs {
		if taxable.LessThanOrEqual(slab.Lower) {
			break
		}
		top := taxable
		if slab.Upper != nil {
			top = decimal.Min(taxable, *slab.Upper)
		}
		if band := top.Sub(slab.Lower); band.IsPositive() {
			total = total.Add(band.Mul(slab.Rate))
		}
	}
	return total
}

// MarginalRate returns the rate of the first slab containing taxable, or zero when none does
func MarginalRate(taxable decimal.Decimal, slabs []domain.TaxSlab) decimal.Decimal {
	for _, slab := range slabs {
		if slab.Contains(taxable) {
			return slab.Rate
		}
	}
	return decimalZero
}

// HRAExemption returns min(hraReceived, rentPaid - 10% of basic, 50% of basic), floored at zero
func HRAExemption(s domain.TaxScenario, rules domain.HRARules) decimal.Decimal {
	rentExcess := s.RentPaid.Sub(s.BasicSalary.Mul(rules.RentExcessShare))
	basicCap := s.BasicSalary.Mul(rules.BasicSalaryShare)
	exemption := decimal.Min(s.HRAReceived, rentExcess, basicCap)
	if exemption.IsNegative() {
		return decimalZero
	}
	return exemption
}

// Suggestions produces deterministic tips for under-utilized deductions and exemptions
func Suggestions(s domain.TaxScenario, rules *domain.TaxRuleTable) []string {
	var tips []string

	if gap := rules.Deductions.Section80C.Sub(s.Section80C); gap.IsPositive() {
		tips = append(tips, fmt.Sprintf(
			"Invest %s more in 80C (e.g., ELSS, PPF, EPF, life insurance) to reach the %s cap.",
			money.Format(gap), money.Format(rules.Deductions.Section80C)))
	}
	if gap := rules.Deductions.Section80D.Sub(s.Section80D); gap.IsPositive() {
		tips = append(tips, fmt.Sprintf(
			"Buy health insurance to claim up to %s more under 80D.", money.Format(gap)))
	}
	if s.HRAReceived.IsPositive() {
		threshold := s.BasicSalary.Mul(rules.HRA.RentExcessShare)
		switch {
		case s.RentPaid.IsZero():
			tips = append(tips, fmt.Sprintf(
				"You receive %s as HRA but no rent is recorded; rent paid above %s would be exempt.",
				money.Format(s.HRAReceived), money.Format(threshold)))
		case s.RentPaid.GreaterThan(threshold):
			tips = append(tips, "Ensure rent receipts are submitted to maximize HRA exemption.")
		}
	}

	if len(tips) == 0 {
		tips = append(tips, AlreadyOptimizedSuggestion)
	}
	return tips
}
