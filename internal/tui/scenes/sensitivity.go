package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// SensitivityMode represents the stage of the sensitivity scene
type SensitivityMode int

const (
	ModeSetup SensitivityMode = iota
	ModeShowResults
)

var sensitivityTargets = []domain.SensitivityTarget{
	domain.SensitivitySIP,
	domain.SensitivityGoal,
	domain.SensitivityLoan,
}

// sweepBase is the calculation a sweep is centred on
type sweepBase struct {
	amount decimal.Decimal
	years  int
	rate   decimal.Decimal
}

// focus 0 is the target selector; 1..3 are the min, max and step inputs
const sweepFields = 4

// SensitivityModel sweeps the annual rate of the calculator's SIP, goal or loan
type SensitivityModel struct {
	mode    SensitivityMode
	target  int
	bases   map[domain.SensitivityTarget]sweepBase
	inputs  [3]textinput.Model
	focus   int
	running bool
	err     string
	result  *domain.SensitivityAnalysis
	width   int
	height  int
}

// NewSensitivityModel creates a new sensitivity scene model
func NewSensitivityModel() *SensitivityModel {
	m := &SensitivityModel{bases: make(map[domain.SensitivityTarget]sweepBase)}
	for i, placeholder := range []string{"e.g. 8", "e.g. 16", "e.g. 1"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 8
		ti.Width = 10
		m.inputs[i] = ti
	}
	m.inputs[0].SetValue("8")
	m.inputs[1].SetValue("16")
	m.inputs[2].SetValue("1")
	return m
}

// SetBases centres the sweeps on the calculator's current inputs
func (m *SensitivityModel) SetBases(sip domain.SIPRequest, goal domain.GoalRequest, loan domain.LoanRequest) {
	m.bases[domain.SensitivitySIP] = sweepBase{sip.Contribution, sip.Years, sip.AnnualRatePercent}
	m.bases[domain.SensitivityGoal] = sweepBase{goal.TargetAmount, goal.Years, goal.AnnualRatePercent}
	m.bases[domain.SensitivityLoan] = sweepBase{loan.Principal, loan.Years, loan.AnnualRatePercent}
}

// Target returns the calculation being swept
func (m *SensitivityModel) Target() domain.SensitivityTarget {
	return sensitivityTargets[m.target]
}

// Editing reports whether keystrokes go to a text input
func (m *SensitivityModel) Editing() bool {
	return m.mode == ModeSetup && m.focus > 0
}

// SetSize updates the model dimensions
func (m *SensitivityModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetResult stores a finished analysis
func (m *SensitivityModel) SetResult(analysis *domain.SensitivityAnalysis) {
	m.result = analysis
	m.running = false
	m.mode = ModeShowResults
}

// SetError reports a failed analysis and returns to setup
func (m *SensitivityModel) SetError(err error) {
	m.running = false
	m.mode = ModeSetup
	m.err = err.Error()
}

// Request assembles the sweep from the inputs
func (m *SensitivityModel) Request() (domain.SensitivityRequest, error) {
	var bounds [3]decimal.Decimal
	for i, label := range []string{"minimum", "maximum", "step"} {
		v, err := decimal.NewFromString(strings.TrimSpace(m.inputs[i].Value()))
		if err != nil {
			return domain.SensitivityRequest{}, fmt.Errorf("%s rate %q is not a number", label, m.inputs[i].Value())
		}
		bounds[i] = v
	}

	base := m.bases[m.Target()]
	return domain.SensitivityRequest{
		Target:          m.Target(),
		Amount:          base.amount,
		Years:           base.years,
		BaseRatePercent: base.rate,
		Sweep: domain.RateSweep{
			MinPercent:  bounds[0],
			MaxPercent:  bounds[1],
			StepPercent: bounds[2],
		},
	}, nil
}

func (m *SensitivityModel) setFocus(i int) tea.Cmd {
	m.focus = (i + sweepFields) % sweepFields
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	if m.focus > 0 {
		return m.inputs[m.focus-1].Focus()
	}
	return nil
}

// Update handles messages for the sensitivity scene
func (m *SensitivityModel) Update(msg tea.Msg) (*SensitivityModel, tea.Cmd) {
	if m.mode == ModeShowResults {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, key.NewBinding(key.WithKeys("n", "backspace"))) {
			m.mode = ModeSetup
			m.result = nil
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.focus > 0 {
			var cmd tea.Cmd
			m.inputs[m.focus-1], cmd = m.inputs[m.focus-1].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab", "down"))):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+tab", "up"))):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		return m, m.run()
	}

	if m.focus == 0 {
		switch {
		case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
			m.target = (m.target + len(sensitivityTargets) - 1) % len(sensitivityTargets)
		case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
			m.target = (m.target + 1) % len(sensitivityTargets)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus-1], cmd = m.inputs[m.focus-1].Update(msg)
	return m, cmd
}

func (m *SensitivityModel) run() tea.Cmd {
	req, err := m.Request()
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.err = ""
	m.running = true
	return func() tea.Msg {
		return tuimsg.SensitivityStartedMsg{Request: req}
	}
}

// View renders the sensitivity scene
func (m *SensitivityModel) View() string {
	if m.running {
		return tuistyles.BorderStyle.Render("⠋ Sweeping rates...")
	}
	if m.mode == ModeShowResults && m.result != nil {
		return m.renderResults()
	}
	return m.renderSetup()
}

func (m *SensitivityModel) renderSetup() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true)

	content.WriteString(titleStyle.Render("Rate Sensitivity"))
	content.WriteString("\n")
	content.WriteString(subtleStyle.Render("Repeat a calculation across a range of annual rates."))
	content.WriteString("\n\n")

	var targets []string
	for i, t := range sensitivityTargets {
		label := strings.ToUpper(string(t))
		if i == m.target {
			targets = append(targets, highlightStyle.Render("["+label+"]"))
		} else {
			targets = append(targets, subtleStyle.Render(" "+label+" "))
		}
	}
	cursor := "  "
	if m.focus == 0 {
		cursor = highlightStyle.Render("❯ ")
	}
	content.WriteString(cursor + "Target: " + strings.Join(targets, " "))
	content.WriteString("\n")

	base := m.bases[m.Target()]
	content.WriteString(subtleStyle.Render(fmt.Sprintf("    %s %s over %s, base rate %s%%",
		amountLabel(m.Target()), money.Format(base.amount), plural(base.years, "year"), base.rate.StringFixed(2))))
	content.WriteString("\n\n")

	inputStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(tuistyles.ColorBorder).Padding(0, 1)
	for i, label := range []string{"Min rate %", "Max rate %", "Step %"} {
		style := inputStyle
		if m.focus == i+1 {
			style = style.BorderForeground(tuistyles.ColorPrimary)
		}
		content.WriteString(padRight(label, 12) + style.Render(m.inputs[i].View()))
		content.WriteString("\n")
	}

	if m.err != "" {
		content.WriteString("\n")
		content.WriteString(tuistyles.ErrorStyle.Render("✗ " + m.err))
	}

	content.WriteString("\n")
	content.WriteString(subtleStyle.Render("Tab/↑/↓ move • ←/→ target • Enter run • ESC back"))
	return tuistyles.BorderStyle.Render(content.String())
}

func amountLabel(t domain.SensitivityTarget) string {
	switch t {
	case domain.SensitivityGoal:
		return "Target"
	case domain.SensitivityLoan:
		return "Principal"
	default:
		return "Contribution"
	}
}

func valueLabel(t domain.SensitivityTarget) string {
	switch t {
	case domain.SensitivityGoal:
		return "Required monthly"
	case domain.SensitivityLoan:
		return "Monthly EMI"
	default:
		return "Final value"
	}
}

func (m *SensitivityModel) renderResults() string {
	r := m.result
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)

	cards := []*components.MetricCard{
		components.NewAmountCard("Base "+strings.ToLower(valueLabel(r.Target)), r.BaseValue).
			WithDescription("at " + r.BaseRatePercent.StringFixed(2) + "%"),
		components.NewAmountCard("Range", r.Summary.Range).
			WithDescription(r.Summary.RangePct.StringFixed(1) + "% of base"),
		components.NewMetricCard("Sensitivity", r.Summary.Sensitivity),
	}

	values := make([]decimal.Decimal, len(r.Points))
	labels := make([]string, len(r.Points))
	for i, p := range r.Points {
		values[i] = p.Value
		labels[i] = p.AnnualRatePercent.StringFixed(1) + "%"
	}
	width := 70
	if m.width > 20 && m.width-10 < width {
		width = m.width - 10
	}
	chart := components.NewASCIIChart(valueLabel(r.Target)+" by annual rate").
		WithSize(width, 10).
		AddDecimalSeries(valueLabel(r.Target), values, tuistyles.ColorChartLine1).
		WithLabels(labels).
		WithXAxisLabel("Annual rate").
		Render()

	help := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("n new sweep • ESC back")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Rate Sensitivity • %s %s • %s",
			strings.ToUpper(string(r.Target)), money.Format(r.Amount), plural(r.Years, "year"))),
		"",
		components.MetricGrid(cards, 3),
		"",
		chart,
		"",
		renderSweepTable(r),
		"",
		help,
	)
}

func renderSweepTable(r *domain.SensitivityAnalysis) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-8s %16s %16s %10s", "Rate", valueLabel(r.Target), "Change", "Change %")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 53))
	for i, p := range r.Points {
		if i == maxTableRows {
			b.WriteString("\n" + tuistyles.SubtitleStyle.Render(fmt.Sprintf("... and %d more rows", len(r.Points)-maxTableRows)))
			break
		}
		marker := " "
		if p.AnnualRatePercent.Equal(r.BaseRatePercent) {
			marker = "★"
		}
		b.WriteString(fmt.Sprintf("\n%-8s %16s %16s %9s%%%s", p.AnnualRatePercent.StringFixed(2)+"%",
			money.FormatFixed(p.Value, 2), money.Format(p.ChangeFromBase), p.ChangeFromBasePct.StringFixed(1), marker))
	}
	return tableStyle().Render(b.String())
}
