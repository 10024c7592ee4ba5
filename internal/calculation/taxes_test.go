package calculation

import (
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// slabRules mirrors the built-in fy2023-24 table: slabs only, no standard deduction,
// rebate or cess.
func slabRules() *domain.TaxRuleTable {
	return &domain.TaxRuleTable{
		Metadata:   domain.RuleMetadata{Version: "test"},
		Deductions: domain.DeductionCaps{Section80C: d("150000"), Section80D: d("25000")},
		HRA:        domain.HRARules{BasicSalaryShare: d("0.5"), RentExcessShare: d("0.1")},
		Regimes: map[domain.Regime]domain.RegimeRules{
			domain.RegimeOld: {
				AllowsExemptions: true,
				Slabs: []domain.TaxSlab{
					{Lower: d("0"), Upper: dp("250000"), Rate: d("0")},
					{Lower: d("250000"), Upper: dp("500000"), Rate: d("0.05")},
					{Lower: d("500000"), Upper: dp("1000000"), Rate: d("0.20")},
					{Lower: d("1000000"), Rate: d("0.30")},
				},
			},
			domain.RegimeNew: {
				Slabs: []domain.TaxSlab{
					{Lower: d("0"), Upper: dp("300000"), Rate: d("0")},
					{Lower: d("300000"), Upper: dp("600000"), Rate: d("0.05")},
					{Lower: d("600000"), Upper: dp("900000"), Rate: d("0.10")},
					{Lower: d("900000"), Upper: dp("1200000"), Rate: d("0.15")},
					{Lower: d("1200000"), Upper: dp("1500000"), Rate: d("0.20")},
					{Lower: d("1500000"), Rate: d("0.30")},
				},
			},
		},
	}
}

// fullRules adds the standard deduction, 87A rebate and 4% cess to slabRules
func fullRules() *domain.TaxRuleTable {
	rules := slabRules()
	rules.Metadata.Version = "test-full"
	old := rules.Regimes[domain.RegimeOld]
	old.StandardDeduction, old.RebateThreshold, old.CessRate = d("50000"), d("500000"), d("0.04")
	rules.Regimes[domain.RegimeOld] = old
	nw := rules.Regimes[domain.RegimeNew]
	nw.StandardDeduction, nw.RebateThreshold, nw.CessRate = d("50000"), d("700000"), d("0.04")
	rules.Regimes[domain.RegimeNew] = nw
	return rules
}

func scenario() domain.TaxScenario {
	return domain.TaxScenario{
		GrossIncome: d("800000"),
		RentPaid:    d("180000"),
		Section80C:  d("100000"),
		Section80D:  decimal.Zero,
		HRAReceived: d("120000"),
		BasicSalary: d("400000"),
	}
}

func TestTaxComparator_ConcreteScenario(t *testing.T) {
	tc, err := NewTaxComparator(slabRules())
	require.NoError(t, err)

	result, err := tc.Compare(scenario())
	require.NoError(t, err)

	assert.True(t, result.New.TaxableIncome.Equal(d("800000")))
	assert.True(t, result.Old.TaxableIncome.LessThan(result.New.TaxableIncome))
	assert.True(t, result.Old.HRAExemption.Equal(d("120000")))
	assert.True(t, result.Old.Deductions.Equal(d("100000")))
	assert.True(t, result.Old.TaxableIncome.Equal(d("580000")))

	assert.True(t, result.Old.TaxPayable.Equal(d("28500")), "old tax %s", result.Old.TaxPayable)
	assert.True(t, result.New.TaxPayable.Equal(d("35000")), "new tax %s", result.New.TaxPayable)
	assert.Equal(t, domain.RegimeOld, result.RecommendedRegime)
	assert.True(t, result.Savings.Equal(d("6500")))
	assert.Equal(t, "test", result.RulesVersion)

	assert.Equal(t, []string{
		"Invest ₹50,000 more in 80C (e.g., ELSS, PPF, EPF, life insurance) to reach the ₹1,50,000 cap.",
		"Buy health insurance to claim up to ₹25,000 more under 80D.",
		"Ensure rent receipts are submitted to maximize HRA exemption.",
	}, result.Suggestions)
}

func TestTaxComparator_FullRules(t *testing.T) {
	tc, err := NewTaxComparator(fullRules())
	require.NoError(t, err)

	result, err := tc.Compare(scenario())
	require.NoError(t, err)

	assert.True(t, result.Old.TaxableIncome.Equal(d("530000")))
	assert.True(t, result.Old.TaxBeforeCess.Equal(d("18500")))
	assert.True(t, result.Old.Cess.Equal(d("740")))
	assert.True(t, result.Old.TaxPayable.Equal(d("19240")))
	assert.True(t, result.New.TaxableIncome.Equal(d("750000")))
	assert.True(t, result.New.TaxPayable.Equal(d("31200")))
	assert.Equal(t, domain.RegimeOld, result.RecommendedRegime)

	// rebate: new-regime taxable income of 6,50,000 is within the 7,00,000 threshold
	rebated, err := tc.Compare(domain.TaxScenario{GrossIncome: d("700000")})
	require.NoError(t, err)
	assert.True(t, rebated.New.TaxPayable.IsZero())
	assert.True(t, rebated.New.RebateApplied)
	assert.False(t, rebated.Old.RebateApplied)
	assert.True(t, rebated.Old.TaxPayable.IsPositive())
	assert.Equal(t, domain.RegimeNew, rebated.RecommendedRegime)
}

func TestTaxComparator_TieRecommendsNew(t *testing.T) {
	tc, err := NewTaxComparator(slabRules())
	require.NoError(t, err)

	// both regimes are in their zero-rate slab
	result, err := tc.Compare(domain.TaxScenario{GrossIncome: d("200000")})
	require.NoError(t, err)
	assert.True(t, result.Old.TaxPayable.Equal(result.New.TaxPayable))
	assert.Equal(t, domain.RegimeNew, result.RecommendedRegime)
	assert.True(t, result.Savings.IsZero())
}

func TestTaxComparator_ZeroIncome(t *testing.T) {
	for _, rules := range []*domain.TaxRuleTable{slabRules(), fullRules()} {
		tc, err := NewTaxComparator(rules)
		require.NoError(t, err)

		result, err := tc.Compare(domain.TaxScenario{})
		require.NoError(t, err)
		assert.True(t, result.Old.TaxPayable.IsZero())
		assert.True(t, result.New.TaxPayable.IsZero())
		assert.True(t, result.Old.TaxableIncome.IsZero())
	}
}

func TestTaxComparator_NonNegative(t *testing.T) {
	tc, err := NewTaxComparator(fullRules())
	require.NoError(t, err)

	scenarios := []domain.TaxScenario{
		{GrossIncome: d("100000"), Section80C: d("150000"), Section80D: d("25000")},
		{GrossIncome: d("300000"), RentPaid: d("500000"), HRAReceived: d("400000"), BasicSalary: d("200000")},
		{GrossIncome: d("2500000"), RentPaid: d("10000"), HRAReceived: d("300000"), BasicSalary: d("1000000")},
		{GrossIncome: d("45000000"), Section80C: d("900000"), Section80D: d("100000")},
	}
	for _, s := range scenarios {
		result, err := tc.Compare(s)
		require.NoError(t, err)
		for _, o := range []domain.RegimeOutcome{result.Old, result.New} {
			assert.False(t, o.TaxableIncome.IsNegative())
			assert.False(t, o.TaxPayable.IsNegative())
			assert.False(t, o.HRAExemption.IsNegative())
		}
	}
}

func TestTaxComparator_RejectsNegativeInputs(t *testing.T) {
	tc, err := NewTaxComparator(slabRules())
	require.NoError(t, err)

	mutations := map[string]func(*domain.TaxScenario){
		"grossIncome": func(s *domain.TaxScenario) { s.GrossIncome = d("-1") },
		"rentPaid":    func(s *domain.TaxScenario) { s.RentPaid = d("-1") },
		"section80C":  func(s *domain.TaxScenario) { s.Section80C = d("-1") },
		"section80D":  func(s *domain.TaxScenario) { s.Section80D = d("-1") },
		"hraReceived": func(s *domain.TaxScenario) { s.HRAReceived = d("-1") },
		"basicSalary": func(s *domain.TaxScenario) { s.BasicSalary = d("-1") },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			s := scenario()
			mutate(&s)
			result, err := tc.Compare(s)
			assert.Nil(t, result)
			require.True(t, domain.IsInvalidArgument(err))

			var ce *domain.CalculationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, field, ce.Field)
		})
	}
}

func TestNewTaxComparator_RequiresBothRegimes(t *testing.T) {
	_, err := NewTaxComparator(nil)
	assert.Error(t, err)

	rules := slabRules()
	delete(rules.Regimes, domain.RegimeNew)
	_, err = NewTaxComparator(rules)
	assert.ErrorContains(t, err, "no new regime")
}

func TestCalculateSlabTax(t *testing.T) {
	slabs := slabRules().Regimes[domain.RegimeOld].Slabs
	tests := []struct {
		taxable string
		want    string
	}{
		{"0", "0"},
		{"250000", "0"},
		{"250001", "0.05"},
		{"500000", "12500"},
		{"1000000", "112500"},
		{"1500000", "262500"},
	}
	for _, tt := range tests {
		t.Run(tt.taxable, func(t *testing.T) {
			got := CalculateSlabTax(d(tt.taxable), slabs)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestMarginalRate(t *testing.T) {
	slabs := slabRules().Regimes[domain.RegimeOld].Slabs
	tests := []struct {
		taxable string
		want    string
	}{
		{"0", "0"},
		{"250000", "0"},
		{"250001", "0.05"},
		{"580000", "0.2"},
		{"1000000", "0.2"},
		{"5000000", "0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.taxable, func(t *testing.T) {
			got := MarginalRate(d(tt.taxable), slabs)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}

	assert.True(t, MarginalRate(d("100"), nil).IsZero())
}

func TestTaxComparator_SwitchSavings(t *testing.T) {
	tc, err := NewTaxComparator(slabRules())
	require.NoError(t, err)
	result, err := tc.Compare(scenario())
	require.NoError(t, err)

	require.Equal(t, domain.RegimeOld, result.RecommendedRegime)
	assert.True(t, result.Old.MarginalRate.Equal(d("0.2")))
	assert.True(t, result.New.MarginalRate.Equal(d("0.1")))
	assert.True(t, result.SwitchSavings(domain.RegimeNew).Equal(d("6500")))
	assert.True(t, result.SwitchSavings(domain.RegimeOld).IsZero())
}

func TestHRAExemption(t *testing.T) {
	rules := slabRules().HRA
	tests := []struct {
		name string
		s    domain.TaxScenario
		want string
	}{
		{"limited by HRA received", scenario(), "120000"},
		{"limited by rent excess", domain.TaxScenario{HRAReceived: d("200000"), RentPaid: d("100000"), BasicSalary: d("400000")}, "60000"},
		{"limited by basic share", domain.TaxScenario{HRAReceived: d("500000"), RentPaid: d("900000"), BasicSalary: d("400000")}, "200000"},
		{"rent below threshold", domain.TaxScenario{HRAReceived: d("100000"), RentPaid: d("10000"), BasicSalary: d("400000")}, "0"},
		{"no rent", domain.TaxScenario{HRAReceived: d("100000"), BasicSalary: d("400000")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, HRAExemption(tt.s, rules).Equal(d(tt.want)))
		})
	}
}

func TestSuggestions(t *testing.T) {
	rules := slabRules()

	maxed := domain.TaxScenario{GrossIncome: d("1000000"), Section80C: d("150000"), Section80D: d("25000")}
	assert.Equal(t, []string{AlreadyOptimizedSuggestion}, Suggestions(maxed, rules))

	noRent := maxed
	noRent.HRAReceived, noRent.BasicSalary = d("100000"), d("400000")
	tips := Suggestions(noRent, rules)
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "no rent is recorded")
	assert.Contains(t, tips[0], "₹40,000")

	partial := maxed
	partial.Section80C = d("149000")
	assert.Equal(t, []string{
		"Invest ₹1,000 more in 80C (e.g., ELSS, PPF, EPF, life insurance) to reach the ₹1,50,000 cap.",
	}, Suggestions(partial, rules))
}
