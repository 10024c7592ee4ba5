package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render(m.spinner.Render()))
	}
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case ScenePlan:
		content = m.planModel.View()
	case SceneCalculator:
		content = m.parametersModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneSensitivity:
		content = m.sensitivityModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-4, 0) // title (2) + status (1) + padding (1)
	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("finplan")

	breadcrumb := m.currentScene.String()
	if m.currentScene == SceneCalculator {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, m.parametersModel.Active())
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("e", "plan"),
		formatShortcut("c", "calculator"),
		formatShortcut("o", "offers"),
		formatShortcut("s", "sensitivity"),
		formatShortcut("r", "results"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.plan != nil {
		name := m.plan.Name
		if name == "" {
			name = m.planPath
		}
		planName := SubtitleStyle.Render(name)
		spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(planName)-4))
		statusText = statusText + spacer + planName
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err),
	)
	return m.renderApp(content)
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"NAVIGATION", [][2]string{
		{"h", "Home"},
		{"e", "Plan entries"},
		{"c", "Calculator"},
		{"o", "Compare loan offers"},
		{"s", "Rate sensitivity"},
		{"r", "Last result"},
		{"?", "This help"},
		{"ESC", "Back"},
		{"q/Ctrl+C", "Quit"},
	}},
	{"CALCULATOR", [][2]string{
		{"Tab/Shift+Tab", "Switch calculator"},
		{"↑/↓", "Select input"},
		{"←/→ or -/+", "Adjust by one step"},
		{"[ / ]", "Adjust by ten steps"},
		{"Enter", "Calculate"},
		{"x", "Reset inputs"},
	}},
	{"LOAN OFFERS AND SENSITIVITY", [][2]string{
		{"Space", "Toggle an offer template"},
		{"Tab", "Next sweep field"},
		{"Enter", "Run"},
		{"n", "New sweep"},
	}},
}

// renderHelp renders the help screen
func renderHelp() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("finplan - SIP, Goal, Loan, Tax and Budget Planner"))
	for _, section := range helpSections {
		b.WriteString("\n\n" + SubtitleStyle.Render(section.title))
		for _, k := range section.keys {
			b.WriteString(fmt.Sprintf("\n  %s %s", HelpKeyStyle.Render(fmt.Sprintf("%-14s", k[0])), HelpDescStyle.Render(k[1])))
		}
	}
	return BorderStyle.Render(b.String())
}
