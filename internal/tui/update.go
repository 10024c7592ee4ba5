package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.planModel.SetSize(msg.Width, msg.Height)
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		m.sensitivityModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Scene), nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case PlanLoadedMsg:
		m.plan = msg.Plan
		m.homeModel.SetPlan(msg.Path, msg.Plan)
		m.planModel.SetPlan(msg.Plan)
		return m, nil

	case tuimsg.EntrySelectedMsg:
		m.parametersModel.Load(msg.Calculator, msg.Request)
		return m.navigate(SceneCalculator), nil

	case tuimsg.CalculateRequestedMsg:
		m = m.startLoading("Calculating " + msg.Calculator.String() + "...")
		return m, tea.Batch(calculateCmd(m.engine, msg.Calculator, msg.Request), tickCmd())

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.SetResult(msg.Calculator, msg.Result)
		return m.navigate(SceneResults), nil

	case tuimsg.ComparisonStartedMsg:
		m = m.startLoading("Comparing loan offers...")
		return m, tea.Batch(compareCmd(m.compareEngine, msg.Base, msg.Templates), tickCmd())

	case tuimsg.ComparisonCompleteMsg:
		m.loading = false
		m.compareModel.SetResult(msg.Set)
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil

	case tuimsg.SensitivityStartedMsg:
		m = m.startLoading("Sweeping rates...")
		return m, tea.Batch(sensitivityCmd(m.analyzer, msg.Request), tickCmd())

	case tuimsg.SensitivityCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.sensitivityModel.SetError(msg.Err)
			return m, nil
		}
		m.sensitivityModel.SetResult(msg.Analysis)
		return m, nil

	case TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner.Next()
		return m, tickCmd()
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startLoading(message string) Model {
	m.loading = true
	m.spinner.WithMessage(message)
	return m
}

// navigate switches scenes, refreshing the inputs the target scene derives
// from the calculator
func (m Model) navigate(scene Scene) Model {
	if scene == m.currentScene {
		return m
	}
	switch scene {
	case SceneCompare:
		m.compareModel.SetBase(m.parametersModel.LoanRequest())
	case SceneSensitivity:
		m.sensitivityModel.SetBases(
			m.parametersModel.SIPRequest(),
			m.parametersModel.GoalRequest(),
			m.parametersModel.LoanRequest(),
		)
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
	return m
}

var sceneKeys = map[string]Scene{
	"h": SceneHome,
	"e": ScenePlan,
	"c": SceneCalculator,
	"o": SceneCompare,
	"s": SceneSensitivity,
	"r": SceneResults,
	"?": SceneHelp,
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	if msg.String() == "esc" {
		if m.currentScene == SceneHome {
			return m, nil
		}
		back := SceneHome
		if m.previousScene != m.currentScene {
			back = m.previousScene
		}
		return m.navigate(back), nil
	}

	// text inputs receive every other key
	if m.currentScene == SceneSensitivity && m.sensitivityModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}
	if scene, ok := sceneKeys[msg.String()]; ok {
		return m.navigate(scene), nil
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case ScenePlan:
		m.planModel, cmd = m.planModel.Update(msg)
	case SceneCalculator:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneSensitivity:
		m.sensitivityModel, cmd = m.sensitivityModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
