package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
)

const testPlan = `
name: household
sips:
  - name: equity
    contribution: 5000
    years: 5
    annual_rate_percent: 10
loans:
  - name: car
    principal: 500000
    years: 5
    annual_rate_percent: 10
`

func newTestModel(t *testing.T, planPath string) Model {
	t.Helper()
	rules, err := config.NewRuleLoader().Resolve(config.DefaultRulesVersion)
	require.NoError(t, err)
	engine, err := calculation.NewCalculationEngine(rules)
	require.NoError(t, err)
	return NewModel(engine, planPath)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, "")
	assert.Nil(t, m.Init())
	assert.Equal(t, SceneHome, m.currentScene)

	m, _ = send(t, m, runes("c"))
	assert.Equal(t, SceneCalculator, m.currentScene)

	m, _ = send(t, m, runes("o"))
	assert.Equal(t, SceneCompare, m.currentScene)
	assert.Contains(t, m.View(), "Compare Loan Offers")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneCalculator, m.currentScene)

	m, _ = send(t, m, runes("h"))
	assert.Equal(t, SceneHome, m.currentScene)
	assert.Contains(t, m.View(), "fy2023-24")

	m, _ = send(t, m, runes("?"))
	assert.Equal(t, SceneHelp, m.currentScene)

	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_CalculationFlow(t *testing.T) {
	m := newTestModel(t, "")
	m, _ = send(t, m, runes("c"))

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	requested, ok := cmd().(tuimsg.CalculateRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, tuimsg.CalcSIP, requested.Calculator)

	m, _ = send(t, m, requested)
	assert.True(t, m.loading)

	// keys are ignored while a calculation runs
	m, _ = send(t, m, runes("h"))
	assert.Equal(t, SceneCalculator, m.currentScene)

	done := calculateCmd(m.engine, requested.Calculator, requested.Request)()
	m, _ = send(t, m, done)
	assert.False(t, m.loading)
	assert.Equal(t, SceneResults, m.currentScene)
	assert.True(t, m.resultsModel.HasResult())
}

func TestRunCalculation(t *testing.T) {
	m := newTestModel(t, "")

	result, err := runCalculation(m.engine, domain.SIPRequest{
		Contribution:      decimal.NewFromInt(10000),
		Years:             10,
		AnnualRatePercent: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	sip, ok := result.(*domain.SIPResponse)
	require.True(t, ok)
	assert.Equal(t, "2323390.76", sip.FinalValue.StringFixed(2))

	_, err = runCalculation(m.engine, domain.LoanRequest{Years: 5, AnnualRatePercent: decimal.NewFromInt(10)})
	var invalid *domain.CalculationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "principal", invalid.Field)

	_, err = runCalculation(m.engine, "sip")
	assert.Error(t, err)
}

func TestModel_CalculationError(t *testing.T) {
	m := newTestModel(t, "")
	m, _ = send(t, m, tuimsg.CalculationCompleteMsg{Calculator: tuimsg.CalcLoan, Err: errors.New("boom")})
	assert.Contains(t, m.View(), "Error: boom")

	m, _ = send(t, m, runes("x"))
	assert.NoError(t, m.err)
	assert.Equal(t, SceneHome, m.currentScene)
}

func TestModel_PlanLoading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o644))

	m := newTestModel(t, path)
	cmd := m.Init()
	require.NotNil(t, cmd)
	loaded, ok := cmd().(PlanLoadedMsg)
	require.True(t, ok)

	m, _ = send(t, m, loaded)
	assert.Equal(t, 2, m.planModel.Len())
	assert.Contains(t, m.View(), "household")

	m, _ = send(t, m, runes("e"))
	m, _ = send(t, m, runes("j"))
	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(tuimsg.EntrySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, tuimsg.CalcLoan, selected.Calculator)

	m, _ = send(t, m, selected)
	assert.Equal(t, SceneCalculator, m.currentScene)
	assert.Equal(t, tuimsg.CalcLoan, m.parametersModel.Active())
	assert.True(t, m.parametersModel.LoanRequest().Principal.Equal(decimal.NewFromInt(500000)))
}

func TestLoadPlanCmd_MissingFile(t *testing.T) {
	msg := loadPlanCmd(filepath.Join(t.TempDir(), "missing.yaml"))()
	errMsg, ok := msg.(tuimsg.ErrorMsg)
	require.True(t, ok)
	assert.Error(t, errMsg.Err)
}

func TestModel_LoanComparison(t *testing.T) {
	m := newTestModel(t, "")
	m, _ = send(t, m, runes("o"))

	base := m.parametersModel.LoanRequest()
	msg := compareCmd(m.compareEngine, base, []string{"tenure_minus_2y"})()
	done, ok := msg.(tuimsg.ComparisonCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	require.Len(t, done.Set.AlternativeResults, 1)

	m, _ = send(t, m, done)
	assert.Contains(t, m.View(), "Loan Offer Comparison")
}

func TestModel_Sensitivity(t *testing.T) {
	m := newTestModel(t, "")
	m, _ = send(t, m, runes("s"))
	assert.Equal(t, SceneSensitivity, m.currentScene)

	// while a sweep bound is being edited, navigation keys are typed into the input
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.sensitivityModel.Editing())
	m, _ = send(t, m, runes("h"))
	assert.Equal(t, SceneSensitivity, m.currentScene)

	req := domain.SensitivityRequest{
		Target:          domain.SensitivityLoan,
		Amount:          decimal.NewFromInt(500000),
		Years:           5,
		BaseRatePercent: decimal.NewFromInt(10),
		Sweep: domain.RateSweep{
			MinPercent:  decimal.NewFromInt(8),
			MaxPercent:  decimal.NewFromInt(12),
			StepPercent: decimal.NewFromInt(1),
		},
	}
	done, ok := sensitivityCmd(m.analyzer, req)().(tuimsg.SensitivityCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Len(t, done.Analysis.Points, 5)

	m, _ = send(t, m, done)
	assert.False(t, m.sensitivityModel.Editing())
	assert.Contains(t, m.View(), "Rate Sensitivity")

	req.Amount = decimal.Zero
	failed := sensitivityCmd(m.analyzer, req)().(tuimsg.SensitivityCompleteMsg)
	assert.Error(t, failed.Err)
}
