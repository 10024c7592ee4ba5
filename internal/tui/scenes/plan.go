package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// planEntry is one calculation of a plan file
type planEntry struct {
	calculator tuimsg.Calculator
	request    any
	card       *components.EntryCard
}

// PlanModel browses the entries of a loaded plan file
type PlanModel struct {
	entries       []planEntry
	selectedIndex int
	width         int
	height        int
}

// NewPlanModel creates a new plan scene model
func NewPlanModel() *PlanModel {
	return &PlanModel{}
}

// SetPlan flattens the plan into a list in SIP, goal, loan, tax order
func (m *PlanModel) SetPlan(plan *domain.PlanFile) {
	m.entries = nil
	if plan == nil {
		m.selectedIndex = 0
		return
	}

	for i, r := range plan.SIPs {
		card := components.NewEntryCard(entryName(r.Name, "SIP", i), "SIP").
			AddHighlight(money.Format(r.Contribution) + "/month").
			AddHighlight(plural(r.Years, "year") + " at " + r.AnnualRatePercent.StringFixed(2) + "%")
		m.entries = append(m.entries, planEntry{tuimsg.CalcSIP, r, card})
	}
	for i, r := range plan.Goals {
		card := components.NewEntryCard(entryName(r.Name, "Goal", i), "Goal").
			AddHighlight("Target " + money.Format(r.TargetAmount)).
			AddHighlight(plural(r.Years, "year") + " at " + r.AnnualRatePercent.StringFixed(2) + "%")
		if r.MonthlyIncome.IsPositive() {
			card.AddHighlight("Income " + money.Format(r.MonthlyIncome) + "/month")
		}
		m.entries = append(m.entries, planEntry{tuimsg.CalcGoal, r, card})
	}
	for i, r := range plan.Loans {
		card := components.NewEntryCard(entryName(r.Name, "Loan", i), "Loan").
			AddHighlight("Principal " + money.Format(r.Principal)).
			AddHighlight(plural(r.Years, "year") + " at " + r.AnnualRatePercent.StringFixed(2) + "%")
		m.entries = append(m.entries, planEntry{tuimsg.CalcLoan, r, card})
	}
	for i, r := range plan.Taxes {
		card := components.NewEntryCard(entryName(r.Name, "Tax", i), "Tax").
			AddHighlight("Gross " + money.Format(r.GrossIncome))
		if r.RentPaid.IsPositive() {
			card.AddHighlight("Rent " + money.Format(r.RentPaid))
		}
		m.entries = append(m.entries, planEntry{tuimsg.CalcTax, r, card})
	}
	for i, r := range plan.Budgets {
		card := components.NewEntryCard(entryName(r.Name, "Budget", i), "Budget").
			AddHighlight("Income " + money.Format(r.MonthlyIncome) + "/month")
		m.entries = append(m.entries, planEntry{tuimsg.CalcBudget, r, card})
	}

	for _, e := range m.entries {
		e.card.WithWidth(34)
	}
	if m.selectedIndex >= len(m.entries) {
		m.selectedIndex = 0
	}
}

func entryName(name, kind string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s #%d", kind, i+1)
}

// SetSize updates the scene dimensions
func (m *PlanModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Len returns the number of entries
func (m *PlanModel) Len() int {
	return len(m.entries)
}

// Update handles messages for the plan scene
func (m *PlanModel) Update(msg tea.Msg) (*PlanModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.entries) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.entries)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = len(m.entries) - 1
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		e := m.entries[m.selectedIndex]
		return m, func() tea.Msg {
			return tuimsg.EntrySelectedMsg{Calculator: e.calculator, Request: e.request}
		}
	}
	return m, nil
}

// View renders the plan scene
func (m *PlanModel) View() string {
	if len(m.entries) == 0 {
		return `No plan entries.

Start finplan-tui with a plan file, e.g. finplan-tui plan.yaml

Press ESC to return to home.`
	}

	cards := make([]*components.EntryCard, len(m.entries))
	for i, e := range m.entries {
		e.card.SetSelected(i == m.selectedIndex)
		cards[i] = e.card
	}

	listStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(40)
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Plan Entries")
	leftPane := listStyle.Render(title + "\n\n" + components.EntryListCompact(cards, m.selectedIndex))

	hint := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true).
		Render("Press Enter to open in the calculator")
	rightPane := cards[m.selectedIndex].Render() + "\n\n" + hint

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftPane, "  ", rightPane))
	b.WriteString("\n\n")
	b.WriteString("↑/k up • ↓/j down • Enter open • g top • G bottom • ESC back")
	return b.String()
}
