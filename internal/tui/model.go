package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/scenes"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
)

const tickInterval = 100 * time.Millisecond

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	planPath string
	plan     *domain.PlanFile

	engine        *calculation.CalculationEngine
	compareEngine *compare.CompareEngine
	analyzer      *calculation.SensitivityAnalyzer

	homeModel        *scenes.HomeModel
	planModel        *scenes.PlanModel
	parametersModel  *scenes.ParametersModel
	compareModel     *scenes.CompareModel
	sensitivityModel *scenes.SensitivityModel
	resultsModel     *scenes.ResultsModel

	spinner *components.Spinner
	err     error
	loading bool
}

// NewModel creates the application model around a calculation engine.
// planPath may be empty, in which case the calculator starts from defaults.
func NewModel(engine *calculation.CalculationEngine, planPath string) Model {
	home := scenes.NewHomeModel()
	home.SetRulesVersion(engine.RulesVersion())

	return Model{
		currentScene:     SceneHome,
		planPath:         planPath,
		engine:           engine,
		compareEngine:    compare.NewCompareEngine(engine),
		analyzer:         calculation.NewSensitivityAnalyzer(engine),
		homeModel:        home,
		planModel:        scenes.NewPlanModel(),
		parametersModel:  scenes.NewParametersModel(),
		compareModel:     scenes.NewCompareModel(),
		sensitivityModel: scenes.NewSensitivityModel(),
		resultsModel:     scenes.NewResultsModel(),
		spinner:          components.NewSpinner(),
		width:            80,
		height:           24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadPlanCmd(m.planPath)
}

// loadPlanCmd returns a command that loads the plan file
func loadPlanCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		plan, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return PlanLoadedMsg{Path: path, Plan: plan}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// calculateCmd validates a calculator request and runs it on the engine
func calculateCmd(engine *calculation.CalculationEngine, c tuimsg.Calculator, request any) tea.Cmd {
	return func() tea.Msg {
		result, err := runCalculation(engine, request)
		return tuimsg.CalculationCompleteMsg{Calculator: c, Result: result, Err: err}
	}
}

func runCalculation(engine *calculation.CalculationEngine, request any) (any, error) {
	switch req := request.(type) {
	case domain.SIPRequest:
		if err := config.ValidateSIPRequest(&req); err != nil {
			return nil, err
		}
		return engine.SIP(req)
	case domain.GoalRequest:
		if err := config.ValidateGoalRequest(&req); err != nil {
			return nil, err
		}
		return engine.Goal(req)
	case domain.LoanRequest:
		if err := config.ValidateLoanRequest(&req); err != nil {
			return nil, err
		}
		return engine.Loan(req)
	case domain.TaxRequest:
		if err := config.ValidateTaxRequest(&req); err != nil {
			return nil, err
		}
		return engine.Tax(req)
	case domain.BudgetRequest:
		if err := config.ValidateBudgetRequest(&req); err != nil {
			return nil, err
		}
		return engine.Budget(req)
	default:
		return nil, fmt.Errorf("unsupported request type %T", request)
	}
}

// compareCmd compares the base loan with the selected templates
func compareCmd(ce *compare.CompareEngine, base domain.LoanRequest, templates []string) tea.Cmd {
	return func() tea.Msg {
		req := domain.LoanComparisonRequest{Base: base, Templates: templates}
		if err := config.ValidateComparisonRequest(&req); err != nil {
			return tuimsg.ComparisonCompleteMsg{Err: err}
		}
		set, err := ce.Compare(context.Background(), req)
		return tuimsg.ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// sensitivityCmd runs a rate sweep
func sensitivityCmd(analyzer *calculation.SensitivityAnalyzer, req domain.SensitivityRequest) tea.Cmd {
	return func() tea.Msg {
		if err := config.ValidateSensitivityRequest(&req); err != nil {
			return tuimsg.SensitivityCompleteMsg{Err: err}
		}
		analysis, err := analyzer.Analyze(context.Background(), req)
		return tuimsg.SensitivityCompleteMsg{Analysis: analysis, Err: err}
	}
}
