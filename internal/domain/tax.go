package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Regime identifies one of the two income-tax rule sets
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// ParseRegime accepts "old"/"new" in any case, with or without a "regime" suffix
func ParseRegime(s string) (Regime, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "regime"), " ")
	switch v {
	case "old":
		return RegimeOld, nil
	case "new":
		return RegimeNew, nil
	default:
		return "", fmt.Errorf("unknown tax regime %q", s)
	}
}

// UnmarshalText lets plan files and request bodies spell a regime the way ParseRegime accepts.
// Blank text leaves the regime unset.
func (r *Regime) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*r = ""
		return nil
	}
	v, err := ParseRegime(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Title returns the display name of the regime
func (r Regime) Title() string {
	switch r {
	case RegimeOld:
		return "Old Regime"
	case RegimeNew:
		return "New Regime"
	default:
		return string(r)
	}
}

// TaxScenario holds a salaried taxpayer's annual figures
type TaxScenario struct {
	GrossIncome decimal.Decimal `json:"grossIncome" yaml:"gross_income"`
	RentPaid    decimal.Decimal `json:"rentPaid" yaml:"rent_paid"`
	Section80C  decimal.Decimal `json:"section80C" yaml:"section_80c"`
	Section80D  decimal.Decimal `json:"section80D" yaml:"section_80d"`
	HRAReceived decimal.Decimal `json:"hraReceived" yaml:"hra_received"`
	BasicSalary decimal.Decimal `json:"basicSalary" yaml:"basic_salary"`
}

// Fields returns the scenario inputs keyed by their wire names, in declaration order
func (s TaxScenario) Fields() []NamedAmount {
	return []NamedAmount{
		{Name: "grossIncome", Amount: s.GrossIncome},
		{Name: "rentPaid", Amount: s.RentPaid},
		{Name: "section80C", Amount: s.Section80C},
		{Name: "section80D", Amount: s.Section80D},
		{Name: "hraReceived", Amount: s.HRAReceived},
		{Name: "basicSalary", Amount: s.BasicSalary},
	}
}

// NamedAmount pairs a field name with its value
type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

// RegimeOutcome is the liability computed under one regime
type RegimeOutcome struct {
	Regime        Regime          `json:"regime"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	TaxPayable    decimal.Decimal `json:"taxPayable"`
	MarginalRate  decimal.Decimal `json:"marginalRate"` // slab rate on the last rupee of taxable income

	// Breakdown
	StandardDeduction decimal.Decimal `json:"standardDeduction"`
	HRAExemption      decimal.Decimal `json:"hraExemption"`
	Deductions        decimal.Decimal `json:"deductions"` // 80C + 80D after caps
	TaxBeforeCess     decimal.Decimal `json:"taxBeforeCess"`
	Cess              decimal.Decimal `json:"cess"`
	RebateApplied     bool            `json:"rebateApplied"`
}

// TaxComparisonResult holds both regime outcomes and the recommendation
type TaxComparisonResult struct {
	Scenario          TaxScenario     `json:"scenario"`
	Old               RegimeOutcome   `json:"oldRegime"`
	New               RegimeOutcome   `json:"newRegime"`
	RecommendedRegime Regime          `json:"recommendedRegime"`
	Savings           decimal.Decimal `json:"savings"` // liability difference between the two regimes
	Suggestions       []string        `json:"suggestions"`
	RulesVersion      string          `json:"rulesVersion"`
}

// Outcome returns the outcome for the given regime
func (r *TaxComparisonResult) Outcome(regime Regime) RegimeOutcome {
	if regime == RegimeOld {
		return r.Old
	}
	return r.New
}

// SwitchSavings is what a taxpayer on current would save by moving to the recommended regime.
// It is zero when current is already the recommended regime.
func (r *TaxComparisonResult) SwitchSavings(current Regime) decimal.Decimal {
	return r.Outcome(current).TaxPayable.Sub(r.Outcome(r.RecommendedRegime).TaxPayable)
}
