package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
)

// HomeModel represents the home dashboard scene
type HomeModel struct {
	plan         *domain.PlanFile
	planPath     string
	rulesVersion string
	width        int
	height       int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetRulesVersion records the tax rule table the engine was built with
func (m *HomeModel) SetRulesVersion(version string) {
	m.rulesVersion = version
}

// SetPlan updates the loaded plan; a nil plan means none was given
func (m *HomeModel) SetPlan(path string, plan *domain.PlanFile) {
	m.planPath = path
	m.plan = plan
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	// navigation is handled by the root model
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary).
		MarginBottom(1)
	content.WriteString(titleStyle.Render("finplan - SIP, Goal, Loan, Tax and Budget Planner"))
	content.WriteString("\n\n")

	content.WriteString(m.renderOverview())
	content.WriteString("\n\n")
	content.WriteString(m.renderQuickActions())
	content.WriteString("\n\n")
	content.WriteString(m.renderHelp())

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *HomeModel) renderOverview() string {
	var content strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary)
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	content.WriteString(sectionStyle.Render("📋 Overview"))
	content.WriteString("\n")

	version := m.rulesVersion
	if version == "" {
		version = "unknown"
	}
	content.WriteString(labelStyle.Render("  Tax rules: "))
	content.WriteString(valueStyle.Render(version))
	content.WriteString("\n")

	if m.plan == nil {
		content.WriteString(labelStyle.Render("  Plan: "))
		content.WriteString(valueStyle.Render("none loaded, using calculator defaults"))
		content.WriteString("\n")
		return content.String()
	}

	name := m.plan.Name
	if name == "" {
		name = m.planPath
	}
	content.WriteString(labelStyle.Render("  Plan: "))
	content.WriteString(valueStyle.Render(name))
	content.WriteString("\n")
	if m.plan.Description != "" {
		content.WriteString(labelStyle.Render("    " + m.plan.Description))
		content.WriteString("\n")
	}

	counts := []struct {
		label string
		n     int
	}{
		{"SIPs", len(m.plan.SIPs)},
		{"Goals", len(m.plan.Goals)},
		{"Loans", len(m.plan.Loans)},
		{"Tax scenarios", len(m.plan.Taxes)},
		{"Budgets", len(m.plan.Budgets)},
	}
	for _, c := range counts {
		if c.n == 0 {
			continue
		}
		content.WriteString(labelStyle.Render(fmt.Sprintf("    • %s: ", c.label)))
		content.WriteString(valueStyle.Render(fmt.Sprintf("%d", c.n)))
		content.WriteString("\n")
	}
	return content.String()
}

func (m *HomeModel) renderQuickActions() string {
	var content strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary)
	content.WriteString(sectionStyle.Render("⚡ Quick Actions"))
	content.WriteString("\n")

	keyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	actions := []struct{ key, desc string }{
		{"c", "Calculator (SIP, goal, loan, tax)"},
		{"e", "Plan entries"},
		{"o", "Compare loan offers"},
		{"s", "Rate sensitivity"},
		{"r", "Last result"},
	}
	for _, a := range actions {
		content.WriteString("  ")
		content.WriteString(keyStyle.Render("[" + a.key + "]"))
		content.WriteString(" ")
		content.WriteString(descStyle.Render(a.desc))
		content.WriteString("\n")
	}
	return content.String()
}

func (m *HomeModel) renderHelp() string {
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).
		Render("Press ? for help • q to quit")
}
