package tui

import (
	"github.com/rgehrsitz/finplan/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	ScenePlan
	SceneCalculator
	SceneCompare
	SceneSensitivity
	SceneResults
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case ScenePlan:
		return "Plan"
	case SceneCalculator:
		return "Calculator"
	case SceneCompare:
		return "Loan Offers"
	case SceneSensitivity:
		return "Sensitivity"
	case SceneResults:
		return "Results"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// PlanLoadedMsg signals the plan file has been read and validated
type PlanLoadedMsg struct {
	Path string
	Plan *domain.PlanFile
}

// TickMsg advances the loading spinner
type TickMsg struct{}
