package scenes

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestParametersModel_Requests(t *testing.T) {
	m := NewParametersModel()
	sip := m.SIPRequest()
	assert.True(t, sip.Contribution.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 10, sip.Years)

	m.Update(keyRunes("+"))
	assert.True(t, m.SIPRequest().Contribution.Equal(decimal.NewFromInt(10500)))

	m.Update(keyRunes("x"))
	assert.True(t, m.SIPRequest().Contribution.Equal(decimal.NewFromInt(10000)))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tuimsg.CalcGoal, m.Active())

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.CalculateRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, tuimsg.CalcGoal, msg.Calculator)
	assert.IsType(t, domain.GoalRequest{}, msg.Request)
}

func TestParametersModel_LoadWidensRange(t *testing.T) {
	m := NewParametersModel()
	m.Load(tuimsg.CalcLoan, domain.LoanRequest{
		Name:              "home",
		Principal:         decimal.NewFromInt(250000000),
		Years:             30,
		AnnualRatePercent: decimal.RequireFromString("8.5"),
	})

	assert.Equal(t, tuimsg.CalcLoan, m.Active())
	loan := m.LoanRequest()
	assert.Equal(t, "home", loan.Name)
	assert.True(t, loan.Principal.Equal(decimal.NewFromInt(250000000)))
	assert.Equal(t, 30, loan.Years)
	assert.Contains(t, m.View(), "Loaded from plan")
}

func samplePlan() *domain.PlanFile {
	return &domain.PlanFile{
		Name: "household",
		SIPs: []domain.SIPRequest{{Contribution: decimal.NewFromInt(5000), Years: 5, AnnualRatePercent: decimal.NewFromInt(10)}},
		Taxes: []domain.TaxRequest{{Name: "fy24", TaxScenario: domain.TaxScenario{
			GrossIncome: decimal.NewFromInt(800000),
			RentPaid:    decimal.NewFromInt(180000),
		}}},
	}
}

func TestPlanModel(t *testing.T) {
	m := NewPlanModel()
	assert.Contains(t, m.View(), "No plan entries")

	m.SetPlan(samplePlan())
	assert.Equal(t, 2, m.Len())
	view := m.View()
	assert.Contains(t, view, "SIP #1")
	assert.Contains(t, view, "fy24")

	m.Update(keyRunes("G"))
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.EntrySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, tuimsg.CalcTax, msg.Calculator)
	assert.Equal(t, "fy24", msg.Request.(domain.TaxRequest).Name)

	m.SetPlan(nil)
	assert.Equal(t, 0, m.Len())
}

func TestHomeModel(t *testing.T) {
	m := NewHomeModel()
	m.SetRulesVersion("fy2023-24")
	view := m.View()
	assert.Contains(t, view, "fy2023-24")
	assert.Contains(t, view, "none loaded")

	m.SetPlan("plan.yaml", samplePlan())
	view = m.View()
	assert.Contains(t, view, "household")
	assert.Contains(t, view, "Tax scenarios")
}

func TestCompareModel_Selection(t *testing.T) {
	m := NewCompareModel()
	m.SetBase(domain.LoanRequest{Principal: decimal.NewFromInt(500000), Years: 5, AnnualRatePercent: decimal.NewFromInt(10)})

	// nothing selected
	_, cmd := m.Update(enter)
	assert.Nil(t, cmd)

	m.Update(keyRunes(" "))
	m.Update(keyRunes("j"))
	m.Update(keyRunes("x"))
	require.Len(t, m.SelectedTemplates(), 2)

	_, cmd = m.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.ComparisonStartedMsg)
	require.True(t, ok)
	assert.Equal(t, m.SelectedTemplates(), msg.Templates)
	assert.True(t, msg.Base.Principal.Equal(decimal.NewFromInt(500000)))
	assert.Contains(t, m.View(), "Comparing 2 offers")
}

func TestCompareModel_Results(t *testing.T) {
	base := &compare.ComparisonResult{OfferName: "Base offer", Installment: decimal.NewFromInt(10624), TotalInterest: decimal.NewFromInt(137411), TotalPayment: decimal.NewFromInt(637411), Years: 5}
	alt := compare.ComparisonResult{OfferName: "Shorter", Installment: decimal.NewFromInt(12681), TotalInterest: decimal.NewFromInt(108000), TotalPayment: decimal.NewFromInt(608000), Years: 4}

	m := NewCompareModel()
	m.SetResult(&compare.ComparisonSet{
		BaseOfferName:      "Base offer",
		BaseResult:         base,
		AlternativeResults: []compare.ComparisonResult{alt},
		Recommendations:    []string{"Shorter saves interest"},
	})
	view := m.View()
	assert.Contains(t, view, "Loan Offer Comparison")
	assert.Contains(t, view, "Shorter")
	assert.Contains(t, view, "★")
	assert.Contains(t, view, "Shorter saves interest")

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Contains(t, m.View(), "Compare Loan Offers")
}

func TestSensitivityModel_Request(t *testing.T) {
	m := NewSensitivityModel()
	m.SetBases(
		domain.SIPRequest{Contribution: decimal.NewFromInt(10000), Years: 10, AnnualRatePercent: decimal.NewFromInt(12)},
		domain.GoalRequest{TargetAmount: decimal.NewFromInt(2500000), Years: 10, AnnualRatePercent: decimal.NewFromInt(12)},
		domain.LoanRequest{Principal: decimal.NewFromInt(500000), Years: 5, AnnualRatePercent: decimal.NewFromInt(10)},
	)
	assert.Equal(t, domain.SensitivitySIP, m.Target())
	assert.False(t, m.Editing())

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, domain.SensitivityLoan, m.Target())

	req, err := m.Request()
	require.NoError(t, err)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, req.Sweep.MaxPercent.Equal(decimal.NewFromInt(16)))

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	started, ok := cmd().(tuimsg.SensitivityStartedMsg)
	require.True(t, ok)
	assert.Equal(t, domain.SensitivityLoan, started.Request.Target)
}

func TestSensitivityModel_InvalidInput(t *testing.T) {
	m := NewSensitivityModel()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.Editing())
	m.Update(keyRunes("x"))

	_, cmd := m.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "minimum rate")
}

func TestSensitivityModel_Results(t *testing.T) {
	m := NewSensitivityModel()
	m.SetResult(&domain.SensitivityAnalysis{
		Target:          domain.SensitivityLoan,
		Amount:          decimal.NewFromInt(500000),
		Years:           5,
		BaseRatePercent: decimal.NewFromInt(10),
		BaseValue:       decimal.RequireFromString("10623.52"),
		Points: []domain.SensitivityPoint{
			{AnnualRatePercent: decimal.NewFromInt(9), Value: decimal.RequireFromString("10379.18")},
			{AnnualRatePercent: decimal.NewFromInt(10), Value: decimal.RequireFromString("10623.52")},
		},
		Summary: domain.SensitivitySummary{Sensitivity: "LOW"},
	})
	view := m.View()
	assert.Contains(t, view, "Monthly EMI")
	assert.Contains(t, view, "LOW")

	m.Update(keyRunes("n"))
	assert.Contains(t, m.View(), "Target:")
}

func TestResultsModel(t *testing.T) {
	m := NewResultsModel()
	assert.False(t, m.HasResult())

	m.SetResult(tuimsg.CalcTax, &domain.TaxResponse{
		RecommendedRegime: domain.RegimeOld,
		Savings:           decimal.NewFromInt(6500),
		RulesVersion:      "fy2023-24",
	})
	assert.True(t, m.HasResult())
	view := m.View()
	assert.Contains(t, view, "recommended")
	assert.Contains(t, view, "fy2023-24")
}

func TestParametersModel_Budget(t *testing.T) {
	m := NewParametersModel()
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tuimsg.CalcBudget, m.Active())
	assert.Contains(t, m.View(), "Budget")

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.CalculateRequestedMsg)
	require.True(t, ok)
	req, ok := msg.Request.(domain.BudgetRequest)
	require.True(t, ok)
	assert.True(t, req.MonthlyIncome.Equal(decimal.NewFromInt(100000)))
	assert.True(t, req.Rent.Equal(decimal.NewFromInt(30000)))

	m.Load(tuimsg.CalcBudget, domain.BudgetRequest{
		Name:          "march",
		MonthlyIncome: decimal.NewFromInt(60000),
		Food:          decimal.NewFromInt(900000),
	})
	loaded := m.BudgetRequest()
	assert.Equal(t, "march", loaded.Name)
	assert.True(t, loaded.Food.Equal(decimal.NewFromInt(900000)))
	assert.True(t, loaded.Rent.IsZero())
}

func TestPlanModel_Budget(t *testing.T) {
	m := NewPlanModel()
	m.SetPlan(&domain.PlanFile{
		Budgets: []domain.BudgetRequest{{MonthlyIncome: decimal.NewFromInt(80000)}},
	})
	require.Equal(t, 1, m.Len())
	assert.Contains(t, m.View(), "Budget #1")

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.EntrySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, tuimsg.CalcBudget, msg.Calculator)
}

func TestResultsModel_BudgetAndCurrentRegime(t *testing.T) {
	m := NewResultsModel()
	m.SetResult(tuimsg.CalcBudget, &domain.BudgetAnalysis{
		Name:           "march",
		MonthlyIncome:  decimal.NewFromInt(40000),
		TotalExpenses:  decimal.NewFromInt(45000),
		Savings:        decimal.NewFromInt(-5000),
		SavingsPercent: decimal.RequireFromString("-12.5"),
		Verdict:        "Try to reduce expenses or increase income.",
		Allocations: []domain.BudgetAllocation{
			{Category: domain.ExpenseRent, Amount: decimal.NewFromInt(25000), ShareOfIncome: decimal.RequireFromString("0.625")},
			{Category: domain.ExpenseSavings, Amount: decimal.Zero, ShareOfIncome: decimal.Zero},
		},
	})
	view := m.View()
	assert.Contains(t, view, "Budget Results")
	assert.Contains(t, view, "march")
	assert.Contains(t, view, "-12.5%")
	assert.Contains(t, view, "reduce expenses")

	switchSavings := decimal.NewFromInt(6500)
	m.SetResult(tuimsg.CalcTax, &domain.TaxResponse{
		OldRegime:         domain.RegimeOutcome{Regime: domain.RegimeOld, MarginalRate: decimal.RequireFromString("0.2")},
		NewRegime:         domain.RegimeOutcome{Regime: domain.RegimeNew, MarginalRate: decimal.RequireFromString("0.1")},
		RecommendedRegime: domain.RegimeOld,
		Savings:           decimal.NewFromInt(6500),
		CurrentRegime:     domain.RegimeNew,
		SwitchSavings:     &switchSavings,
	})
	view = m.View()
	assert.Contains(t, view, "Marginal rate 20.00%")
	assert.Contains(t, view, "switching saves ₹6,500")
}
