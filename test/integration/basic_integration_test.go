package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
)

// TestBasicIntegration checks the reference figures end to end
func TestBasicIntegration(t *testing.T) {
	result, _ := runPlan(t)

	t.Run("sip_projection", func(t *testing.T) {
		equity := result.SIPs[0]
		assert.Equal(t, "equity", equity.Name)
		assert.Equal(t, "2323390.76", equity.FinalValue.StringFixed(2))
		assert.Equal(t, "1200000.00", equity.TotalContributed.StringFixed(2))
		assert.Len(t, equity.Series, 10)

		for i := 1; i < len(equity.Series); i++ {
			assert.True(t, equity.Series[i].AccumulatedValue.GreaterThan(equity.Series[i-1].AccumulatedValue), "series must grow")
		}
	})

	t.Run("goal_round_trip", func(t *testing.T) {
		goal := result.Goals[0]
		require.True(t, goal.RequiredContribution.IsPositive())
		require.NotNil(t, goal.Affordability)

		_, engine := loadPlan(t)
		sip, err := engine.SIP(domain.SIPRequest{
			Contribution:      goal.RequiredContribution,
			Years:             6,
			AnnualRatePercent: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		diff := sip.FinalValue.Sub(decimal.NewFromInt(1500000)).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromInt(1)), "projecting the solved contribution should reach the target, off by %s", diff)
	})

	t.Run("loan_amortization", func(t *testing.T) {
		car := result.Loans[0]
		assert.Equal(t, "10623.52", car.Installment.StringFixed(2))
		principalRepaid := car.TotalPayment.Sub(car.TotalInterest)
		assert.True(t, principalRepaid.Sub(decimal.NewFromInt(500000)).Abs().LessThan(decimal.NewFromFloat(0.05)), "repaid %s", principalRepaid)
		require.NotEmpty(t, car.Schedule)
		assert.True(t, car.Schedule[len(car.Schedule)-1].RemainingBalance.IsZero())
	})

	t.Run("tax_comparison", func(t *testing.T) {
		salary := result.Taxes[0]
		assert.Equal(t, domain.RegimeOld, salary.RecommendedRegime)
		assert.Equal(t, "6500", salary.Savings.StringFixed(0))
		assert.Equal(t, config.DefaultRulesVersion, salary.RulesVersion)
		assert.Equal(t, domain.RegimeNew, salary.CurrentRegime)
		require.NotNil(t, salary.SwitchSavings)
		assert.Equal(t, "6500", salary.SwitchSavings.StringFixed(0))
	})

	t.Run("budget_analysis", func(t *testing.T) {
		budget := result.Budgets[0]
		assert.Equal(t, "80000", budget.TotalExpenses.StringFixed(0))
		assert.Equal(t, "40000", budget.Savings.StringFixed(0))
		assert.Equal(t, "33.3", budget.SavingsPercent.StringFixed(1))
		assert.True(t, budget.MeetsTarget)
	})
}

// TestOutputGeneration renders the plan result through every registered formatter
func TestOutputGeneration(t *testing.T) {
	result, engine := runPlan(t)
	report := output.ReportFromPlan(result, engine.RulesVersion())
	require.False(t, report.IsEmpty())

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)
			data, err := f.Format(report)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	t.Run("json_round_trip", func(t *testing.T) {
		data, err := output.GetFormatterByName("json").Format(report)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, engine.RulesVersion(), decoded["rulesVersion"])
	})

	t.Run("write_to_directory", func(t *testing.T) {
		dir := t.TempDir()
		path, err := output.WriteFormatted(output.GetFormatterByName("html"), report, dir, "html")
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.FileExists(t, path)
	})
}

// TestErrorHandling covers plans the engine must reject as a whole
func TestErrorHandling(t *testing.T) {
	_, engine := loadPlan(t)

	t.Run("invalid_entry_stops_the_run", func(t *testing.T) {
		plan := &domain.PlanFile{
			Name:  "broken",
			SIPs:  []domain.SIPRequest{{Contribution: decimal.NewFromInt(1000), Years: 5, AnnualRatePercent: decimal.NewFromInt(8)}},
			Loans: []domain.LoanRequest{{Name: "bad", Principal: decimal.NewFromInt(-5), Years: 5, AnnualRatePercent: decimal.NewFromInt(9)}},
		}
		result, err := engine.RunPlan(context.Background(), plan)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), `"bad"`)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		plan, _ := loadPlan(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.RunPlan(ctx, plan)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing_plan_file", func(t *testing.T) {
		_, err := config.NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown_rules", func(t *testing.T) {
		_, err := config.NewRuleLoader().Resolve("fy1999-00")
		assert.Error(t, err)
	})
}

// TestDataConsistency runs the same plan twice and against every built-in rule table
func TestDataConsistency(t *testing.T) {
	first, _ := runPlan(t)
	second, _ := runPlan(t)
	assert.Equal(t, first, second, "runs must be deterministic")

	plan, _ := loadPlan(t)
	for _, version := range config.BuiltinVersions() {
		t.Run(version, func(t *testing.T) {
			table, err := config.NewRuleLoader().Resolve(version)
			require.NoError(t, err)
			engine, err := calculation.NewCalculationEngine(table)
			require.NoError(t, err)

			result, err := engine.RunPlan(context.Background(), plan)
			require.NoError(t, err)
			// Rule tables only affect the tax comparison.
			assert.True(t, result.SIPs[0].FinalValue.Equal(first.SIPs[0].FinalValue))
			assert.Equal(t, version, result.Taxes[0].RulesVersion)
		})
	}
}
