package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// CompareModel compares the calculator's loan with what-if templates
type CompareModel struct {
	registry  *transform.TemplateRegistry
	templates []string
	selected  map[int]bool
	cursor    int
	base      domain.LoanRequest
	result    *compare.ComparisonSet
	comparing bool
	width     int
	height    int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	registry := transform.CreateBuiltInTemplates()
	return &CompareModel{
		registry:  registry,
		templates: registry.List(),
		selected:  make(map[int]bool),
	}
}

// SetBase sets the loan offers are compared against
func (m *CompareModel) SetBase(base domain.LoanRequest) {
	m.base = base
}

// SetResult stores a finished comparison
func (m *CompareModel) SetResult(set *compare.ComparisonSet) {
	m.result = set
	m.comparing = false
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.templates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "x"))):
		m.selected[m.cursor] = !m.selected[m.cursor]
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		names := m.SelectedTemplates()
		if len(names) == 0 {
			return m, nil
		}
		m.comparing = true
		base := m.base
		return m, func() tea.Msg {
			return tuimsg.ComparisonStartedMsg{Base: base, Templates: names}
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace", "delete"))):
		m.selected = make(map[int]bool)
		m.result = nil
	}
	return m, nil
}

// SelectedTemplates returns the chosen template names in list order
func (m *CompareModel) SelectedTemplates() []string {
	var names []string
	for i, name := range m.templates {
		if m.selected[i] {
			names = append(names, name)
		}
	}
	return names
}

// View renders the compare scene
func (m *CompareModel) View() string {
	if m.comparing {
		return tuistyles.BorderStyle.Render("⠋ Comparing " + plural(len(m.SelectedTemplates()), "offer") + "...")
	}
	if m.result != nil {
		return m.renderComparison()
	}
	return m.renderSelection()
}

func (m *CompareModel) renderSelection() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true)

	content.WriteString(titleStyle.Render("Compare Loan Offers"))
	content.WriteString("\n")
	content.WriteString(subtleStyle.Render(fmt.Sprintf("Base: %s over %s at %s%%",
		money.Format(m.base.Principal), plural(m.base.Years, "year"), m.base.AnnualRatePercent.StringFixed(2))))
	content.WriteString("\n\n")

	for i, name := range m.templates {
		cursor := "  "
		if i == m.cursor {
			cursor = highlightStyle.Render("❯ ")
		}
		box := subtleStyle.Render("[ ] ")
		if m.selected[i] {
			box = highlightStyle.Render("[✓] ")
		}
		label := name
		if i == m.cursor {
			label = highlightStyle.Render(name)
		}
		desc := ""
		if t, ok := m.registry.Get(name); ok {
			desc = subtleStyle.Render("  " + t.Description)
		}
		content.WriteString(cursor + box + label + desc + "\n")
	}

	content.WriteString("\n")
	if n := len(m.SelectedTemplates()); n == 0 {
		content.WriteString(subtleStyle.Render("Select at least one offer to compare"))
	} else {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).
			Render(fmt.Sprintf("Selected: %s • Press Enter to compare", plural(n, "offer"))))
	}
	content.WriteString("\n")
	content.WriteString(subtleStyle.Render("↑/↓ move • Space/x toggle • Enter compare • Backspace clear"))

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *CompareModel) renderComparison() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Loan Offer Comparison"))
	content.WriteString("\n\n")
	content.WriteString(m.renderComparisonTable())

	if len(m.result.Recommendations) > 0 {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary).Render("Recommendations"))
		for _, r := range m.result.Recommendations {
			content.WriteString("\n  • " + r)
		}
	}

	content.WriteString("\n\n")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Backspace new comparison • ESC back"))
	return tuistyles.BorderStyle.Render(content.String())
}

type offerMetric struct {
	label  string
	value  func(*compare.ComparisonResult) decimal.Decimal
	format func(decimal.Decimal) string
}

var offerMetrics = []offerMetric{
	{"Monthly EMI", func(r *compare.ComparisonResult) decimal.Decimal { return r.Installment }, func(d decimal.Decimal) string { return money.FormatFixed(d, 2) }},
	{"Total interest", func(r *compare.ComparisonResult) decimal.Decimal { return r.TotalInterest }, money.Format},
	{"Total payment", func(r *compare.ComparisonResult) decimal.Decimal { return r.TotalPayment }, money.Format},
	{"Tenure (years)", func(r *compare.ComparisonResult) decimal.Decimal { return decimal.NewFromInt(int64(r.Years)) }, func(d decimal.Decimal) string { return d.String() }},
}

// renderComparisonTable lays offers out side by side, starring the lowest value per row
func (m *CompareModel) renderComparisonTable() string {
	offers := append([]*compare.ComparisonResult{m.result.BaseResult}, pointers(m.result.AlternativeResults)...)

	const metricWidth, colWidth = 16, 18
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	bestStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)

	var table strings.Builder
	table.WriteString(headerStyle.Render(padRight("Metric", metricWidth)))
	for _, o := range offers {
		table.WriteString(" " + headerStyle.Render(padRight(truncate(o.OfferName, colWidth), colWidth)))
	}
	table.WriteString("\n")
	table.WriteString(strings.Repeat("─", metricWidth+len(offers)*(colWidth+1)))
	table.WriteString("\n")

	for _, metric := range offerMetrics {
		best := metric.value(offers[0])
		for _, o := range offers[1:] {
			if v := metric.value(o); v.LessThan(best) {
				best = v
			}
		}

		table.WriteString(subtleStyle.Render(padRight(metric.label, metricWidth)))
		for _, o := range offers {
			v := metric.value(o)
			cell := metric.format(v)
			if v.Equal(best) {
				cell = bestStyle.Render(cell + " ★")
			}
			table.WriteString(" " + padRight(cell, colWidth))
		}
		table.WriteString("\n")
	}
	return table.String()
}

func pointers(results []compare.ComparisonResult) []*compare.ComparisonResult {
	out := make([]*compare.ComparisonResult, len(results))
	for i := range results {
		out[i] = &results[i]
	}
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
