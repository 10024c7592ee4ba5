package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRuleTable contains the policy data the tax comparator applies.
// It is loaded from a YAML or HCL rule file so that annual budget changes never touch code.
type TaxRuleTable struct {
	Metadata   RuleMetadata           `yaml:"metadata" json:"metadata"`
	Deductions DeductionCaps          `yaml:"deductions" json:"deductions"`
	HRA        HRARules               `yaml:"hra" json:"hra"`
	Regimes    map[Regime]RegimeRules `yaml:"regimes" json:"regimes"`
}

// RuleMetadata describes the provenance of a rule table
type RuleMetadata struct {
	Version       string `yaml:"version" json:"version"`
	FinancialYear string `yaml:"financial_year" json:"financial_year"`
	LastUpdated   string `yaml:"last_updated" json:"last_updated"`
	Description   string `yaml:"description" json:"description"`
}

// DeductionCaps contains the statutory ceilings for old-regime deductions
type DeductionCaps struct {
	Section80C decimal.Decimal `yaml:"section_80c" json:"section_80c"`
	Section80D decimal.Decimal `yaml:"section_80d" json:"section_80d"`
}

// HRARules contains the house-rent-allowance exemption parameters
type HRARules struct {
	BasicSalaryShare decimal.Decimal `yaml:"basic_salary_share" json:"basic_salary_share"` // 0.50 for metro cities
	RentExcessShare  decimal.Decimal `yaml:"rent_excess_share" json:"rent_excess_share"`   // rent above this share of basic is exempt
}

// RegimeRules contains the slab schedule and adjustments of one regime
type RegimeRules struct {
	AllowsExemptions  bool            `yaml:"allows_exemptions" json:"allows_exemptions"`
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	RebateThreshold   decimal.Decimal `yaml:"rebate_threshold" json:"rebate_threshold"` // zero disables the rebate
	CessRate          decimal.Decimal `yaml:"cess_rate" json:"cess_rate"`
	Slabs             []TaxSlab       `yaml:"slabs" json:"slabs"`
}

// TaxSlab represents one income band and its marginal rate.
// A nil Upper bound means the band is unbounded.
type TaxSlab struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Contains reports whether income falls within the band
func (s TaxSlab) Contains(income decimal.Decimal) bool {
	if income.LessThan(s.Lower) {
		return false
	}
	return s.Upper == nil || income.LessThanOrEqual(*s.Upper)
}

// Regime returns the rules for r and whether they are present
func (t *TaxRuleTable) Regime(r Regime) (RegimeRules, bool) {
	rules, ok := t.Regimes[r]
	return rules, ok
}
