package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
name: household
description: Monthly plan for the family
rules: fy2023-24-full
sips:
  - name: equity
    contribution: 10000
    years: 10
    annual_rate_percent: 12
goals:
  - name: house
    target_amount: 2500000
    years: 8
    annual_rate_percent: 10
    monthly_income: 90000
loans:
  - name: car
    principal: 500000
    years: 5
    annual_rate_percent: 10
    every: 6
taxes:
  - name: fy24
    gross_income: 800000
    rent_paid: 180000
    section_80c: 100000
    section_80d: 0
    hra_received: 120000
    basic_salary: 400000
    current_regime: New Regime
budgets:
  - name: march
    monthly_income: 100000
    rent: 30000
    food: 15000
    transport: 5000
    entertainment: 5000
    other: 10000
`

func TestInputParser_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o644))

	plan, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "household", plan.Name)
	assert.Equal(t, "fy2023-24-full", plan.Rules)
	assert.Equal(t, 5, plan.Len())

	require.Len(t, plan.SIPs, 1)
	assert.True(t, plan.SIPs[0].Contribution.Equal(decimal.NewFromInt(10000)))
	assert.True(t, plan.Goals[0].MonthlyIncome.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, 6, plan.Loans[0].Every)

	tax := plan.Taxes[0]
	assert.Equal(t, "fy24", tax.Name)
	assert.True(t, tax.HRAReceived.Equal(decimal.NewFromInt(120000)))
	assert.True(t, tax.BasicSalary.Equal(decimal.NewFromInt(400000)))
	assert.Equal(t, domain.RegimeNew, tax.CurrentRegime)

	require.Len(t, plan.Budgets, 1)
	assert.Equal(t, "march", plan.Budgets[0].Name)
	assert.True(t, plan.Budgets[0].Other.Equal(decimal.NewFromInt(10000)))
}

func TestInputParser_ParseJSON(t *testing.T) {
	plan, err := NewInputParser().Parse([]byte(`{"name": "json", "loans": [{"principal": 100000, "years": 2, "annual_rate_percent": 9.5}]}`))
	require.NoError(t, err)
	require.Len(t, plan.Loans, 1)
	assert.True(t, plan.Loans[0].AnnualRatePercent.Equal(decimal.NewFromFloat(9.5)))
}

func TestInputParser_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = parser.Parse([]byte("name: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = parser.Parse([]byte("name: empty"))
	assert.ErrorContains(t, err, "contains no calculations")

	_, err = parser.Parse([]byte("sips:\n  - contribution: -5\n    years: 3\n    annual_rate_percent: 8\n"))
	assert.ErrorContains(t, err, "sip 1")
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestValidateRequests(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"sip years zero", ValidateSIPRequest(&domain.SIPRequest{Contribution: d("1"), Years: 0}), "years"},
		{"sip too long", ValidateSIPRequest(&domain.SIPRequest{Contribution: d("1"), Years: 51}), "years"},
		{"sip absurd rate", ValidateSIPRequest(&domain.SIPRequest{Contribution: d("1"), Years: 5, AnnualRatePercent: d("250")}), "annualRatePercent"},
		{"sip periods per year", ValidateSIPRequest(&domain.SIPRequest{Contribution: d("1"), Years: 5, PeriodsPerYear: -1}), "periodsPerYear"},
		{"goal zero target", ValidateGoalRequest(&domain.GoalRequest{Years: 5}), "targetAmount"},
		{"goal negative income", ValidateGoalRequest(&domain.GoalRequest{TargetAmount: d("10"), Years: 5, MonthlyIncome: d("-1")}), "monthlyIncome"},
		{"loan zero principal", ValidateLoanRequest(&domain.LoanRequest{Years: 5}), "principal"},
		{"loan negative rate", ValidateLoanRequest(&domain.LoanRequest{Principal: d("10"), Years: 5, AnnualRatePercent: d("-1")}), "annualRatePercent"},
		{"loan negative every", ValidateLoanRequest(&domain.LoanRequest{Principal: d("10"), Years: 5, Every: -1}), "every"},
		{"tax negative rent", ValidateTaxRequest(&domain.TaxRequest{TaxScenario: domain.TaxScenario{RentPaid: d("-1")}}), "rentPaid"},
		{"tax unknown regime", ValidateTaxRequest(&domain.TaxRequest{CurrentRegime: "flat"}), "currentRegime"},
		{"budget negative income", ValidateBudgetRequest(&domain.BudgetRequest{MonthlyIncome: d("-1")}), "monthlyIncome"},
		{"budget negative food", ValidateBudgetRequest(&domain.BudgetRequest{MonthlyIncome: d("1000"), Food: d("-1")}), "food"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			var ce *domain.CalculationError
			require.ErrorAs(t, tt.err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}

	assert.NoError(t, ValidateSIPRequest(&domain.SIPRequest{Contribution: d("0"), Years: 1, AnnualRatePercent: d("-5")}))
	assert.NoError(t, ValidateTaxRequest(&domain.TaxRequest{}))
	assert.NoError(t, ValidateTaxRequest(&domain.TaxRequest{CurrentRegime: domain.RegimeOld}))
	assert.NoError(t, ValidateBudgetRequest(&domain.BudgetRequest{}))
}

func TestValidateComparisonRequest(t *testing.T) {
	ok := domain.LoanRequest{Principal: decimal.NewFromInt(100000), Years: 3, AnnualRatePercent: decimal.NewFromInt(9)}
	bad := ok
	bad.Years = 0

	assert.NoError(t, ValidateComparisonRequest(&domain.LoanComparisonRequest{Base: ok, Alternatives: []domain.LoanRequest{ok}}))

	err := ValidateComparisonRequest(&domain.LoanComparisonRequest{Base: bad})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.ErrorContains(t, err, "base offer")

	err = ValidateComparisonRequest(&domain.LoanComparisonRequest{Base: ok, Alternatives: []domain.LoanRequest{ok, bad}})
	assert.ErrorContains(t, err, "offer 2")
}

func TestValidateSensitivityRequest(t *testing.T) {
	valid := domain.SensitivityRequest{
		Target:          domain.SensitivityLoan,
		Amount:          decimal.NewFromInt(500000),
		Years:           5,
		BaseRatePercent: decimal.NewFromInt(10),
	}
	assert.NoError(t, ValidateSensitivityRequest(&valid))

	tests := []struct {
		name   string
		modify func(r *domain.SensitivityRequest)
	}{
		{"unknown target", func(r *domain.SensitivityRequest) { r.Target = "bond" }},
		{"zero principal", func(r *domain.SensitivityRequest) { r.Amount = decimal.Zero }},
		{"negative sip contribution", func(r *domain.SensitivityRequest) {
			r.Target = domain.SensitivitySIP
			r.Amount = decimal.NewFromInt(-1)
		}},
		{"years too long", func(r *domain.SensitivityRequest) { r.Years = MaxYears + 1 }},
		{"negative loan rate", func(r *domain.SensitivityRequest) { r.BaseRatePercent = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.modify(&r)
			assert.ErrorIs(t, ValidateSensitivityRequest(&r), domain.ErrInvalidArgument)
		})
	}

	sip := valid
	sip.Target = domain.SensitivitySIP
	sip.Amount = decimal.Zero
	assert.NoError(t, ValidateSensitivityRequest(&sip))
}
