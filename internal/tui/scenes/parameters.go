package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
)

var parameterKeys = struct {
	Up, Down, Left, Right, PageUp, PageDown, Next, Prev, Calculate, Reset key.Binding
}{
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Left:      key.NewBinding(key.WithKeys("left", "-")),
	Right:     key.NewBinding(key.WithKeys("right", "+", "=")),
	PageUp:    key.NewBinding(key.WithKeys("pgup", "]")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown", "[")),
	Next:      key.NewBinding(key.WithKeys("tab")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab")),
	Calculate: key.NewBinding(key.WithKeys("enter")),
	Reset:     key.NewBinding(key.WithKeys("x")),
}

// ParametersModel is the calculator scene: one tab of sliders per calculator
type ParametersModel struct {
	active   tuimsg.Calculator
	sliders  map[tuimsg.Calculator][]*components.ParameterSlider
	names    map[tuimsg.Calculator]string
	focused  map[tuimsg.Calculator]int
	modified bool
	width    int
	height   int
}

// NewParametersModel creates the calculator scene with default inputs
func NewParametersModel() *ParametersModel {
	m := &ParametersModel{
		sliders: make(map[tuimsg.Calculator][]*components.ParameterSlider),
		names:   make(map[tuimsg.Calculator]string),
		focused: make(map[tuimsg.Calculator]int),
	}
	for _, c := range tuimsg.Calculators {
		m.buildSliders(c)
	}
	return m
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decStr(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func slider(field, label string, value, lo, hi, step decimal.Decimal, f components.ValueFormatter, desc string) *components.ParameterSlider {
	return components.NewParameterSlider(field, label, value, lo, hi, step).
		WithFormat(f).
		WithWidth(40).
		WithDescription(desc)
}

// buildSliders resets a calculator's sliders to their defaults
func (m *ParametersModel) buildSliders(c tuimsg.Calculator) {
	var s []*components.ParameterSlider
	switch c {
	case tuimsg.CalcSIP:
		s = []*components.ParameterSlider{
			slider("contribution", "Monthly contribution", dec(10000), dec(500), dec(200000), dec(500), components.RupeeFormat, "Amount invested at the start of every month"),
			slider("years", "Horizon", dec(10), dec(1), dec(50), dec(1), components.YearsFormat, "Number of years the SIP runs"),
			slider("rate", "Expected annual return", dec(12), dec(0), dec(30), decStr("0.25"), components.PercentFormat, "Compounded monthly at rate/12"),
		}
	case tuimsg.CalcGoal:
		s = []*components.ParameterSlider{
			slider("target", "Target amount", dec(2500000), dec(50000), dec(100000000), dec(50000), components.RupeeFormat, "Corpus you want at the end of the horizon"),
			slider("years", "Horizon", dec(10), dec(1), dec(50), dec(1), components.YearsFormat, "Years until the goal"),
			slider("rate", "Expected annual return", dec(12), dec(0), dec(30), decStr("0.25"), components.PercentFormat, "Compounded monthly at rate/12"),
			slider("income", "Monthly income", dec(50000), dec(0), dec(1000000), dec(5000), components.RupeeFormat, "Zero skips the affordability check"),
		}
	case tuimsg.CalcLoan:
		s = []*components.ParameterSlider{
			slider("principal", "Loan amount", dec(500000), dec(25000), dec(20000000), dec(25000), components.RupeeFormat, "Amount borrowed"),
			slider("years", "Tenure", dec(5), dec(1), dec(30), dec(1), components.YearsFormat, "Repaid in monthly installments"),
			slider("rate", "Annual interest rate", dec(10), dec(0), dec(30), decStr("0.05"), components.PercentFormat, "Charged monthly at rate/12"),
		}
	case tuimsg.CalcTax:
		s = []*components.ParameterSlider{
			slider("grossIncome", "Gross income", dec(800000), dec(0), dec(5000000), dec(10000), components.RupeeFormat, "Annual salary before deductions"),
			slider("basicSalary", "Basic salary", dec(400000), dec(0), dec(3000000), dec(10000), components.RupeeFormat, "Annual basic pay, used for the HRA exemption"),
			slider("hraReceived", "HRA received", dec(120000), dec(0), dec(1200000), dec(5000), components.RupeeFormat, "House rent allowance paid by the employer"),
			slider("rentPaid", "Rent paid", dec(180000), dec(0), dec(1200000), dec(5000), components.RupeeFormat, "Annual rent"),
			slider("section80C", "Section 80C", dec(100000), dec(0), dec(300000), dec(5000), components.RupeeFormat, "PPF, ELSS, EPF and similar; capped by the rule table"),
			slider("section80D", "Section 80D", dec(0), dec(0), dec(100000), dec(1000), components.RupeeFormat, "Health insurance premiums; capped by the rule table"),
		}
	case tuimsg.CalcBudget:
		s = []*components.ParameterSlider{
			slider("income", "Monthly income", dec(100000), dec(0), dec(2000000), dec(5000), components.RupeeFormat, "Take-home pay for the month"),
			slider(string(domain.ExpenseRent), "Rent", dec(30000), dec(0), dec(500000), dec(1000), components.RupeeFormat, "Rent or home loan EMI"),
			slider(string(domain.ExpenseFood), "Food", dec(15000), dec(0), dec(200000), dec(500), components.RupeeFormat, "Groceries and eating out"),
			slider(string(domain.ExpenseTransport), "Transport", dec(5000), dec(0), dec(100000), dec(500), components.RupeeFormat, "Fuel, fares and vehicle upkeep"),
			slider(string(domain.ExpenseEntertainment), "Entertainment", dec(5000), dec(0), dec(100000), dec(500), components.RupeeFormat, "Subscriptions, outings and hobbies"),
			slider(string(domain.ExpenseOther), "Other", dec(10000), dec(0), dec(500000), dec(500), components.RupeeFormat, "Everything else"),
		}
	}
	m.sliders[c] = s
	m.focused[c] = 0
	m.names[c] = ""
	m.syncFocus()
}

func (m *ParametersModel) syncFocus() {
	for c, sliders := range m.sliders {
		for i, s := range sliders {
			s.SetFocused(c == m.active && i == m.focused[c])
		}
	}
}

// Active returns the calculator whose tab is shown
func (m *ParametersModel) Active() tuimsg.Calculator { return m.active }

// SetActive switches to a calculator tab
func (m *ParametersModel) SetActive(c tuimsg.Calculator) {
	m.active = c
	m.syncFocus()
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ParametersModel) value(c tuimsg.Calculator, field string) decimal.Decimal {
	for _, s := range m.sliders[c] {
		if s.Key == field {
			return s.Value
		}
	}
	return decimal.Zero
}

// setValue loads a value, widening the slider range when a plan entry lies outside it
func (m *ParametersModel) setValue(c tuimsg.Calculator, field string, v decimal.Decimal) {
	for _, s := range m.sliders[c] {
		if s.Key != field {
			continue
		}
		if v.LessThan(s.Min) {
			s.Min = v
		}
		if v.GreaterThan(s.Max) {
			s.Max = v
		}
		s.SetValue(v)
	}
}

func (m *ParametersModel) years(c tuimsg.Calculator) int {
	return int(m.value(c, "years").IntPart())
}

// SIPRequest builds a request from the SIP tab
func (m *ParametersModel) SIPRequest() domain.SIPRequest {
	return domain.SIPRequest{
		Name:              m.names[tuimsg.CalcSIP],
		Contribution:      m.value(tuimsg.CalcSIP, "contribution"),
		Years:             m.years(tuimsg.CalcSIP),
		AnnualRatePercent: m.value(tuimsg.CalcSIP, "rate"),
	}
}

// GoalRequest builds a request from the Goal tab
func (m *ParametersModel) GoalRequest() domain.GoalRequest {
	return domain.GoalRequest{
		Name:              m.names[tuimsg.CalcGoal],
		TargetAmount:      m.value(tuimsg.CalcGoal, "target"),
		Years:             m.years(tuimsg.CalcGoal),
		AnnualRatePercent: m.value(tuimsg.CalcGoal, "rate"),
		MonthlyIncome:     m.value(tuimsg.CalcGoal, "income"),
	}
}

// LoanRequest builds a request from the Loan tab. The schedule is sampled yearly.
func (m *ParametersModel) LoanRequest() domain.LoanRequest {
	return domain.LoanRequest{
		Name:              m.names[tuimsg.CalcLoan],
		Principal:         m.value(tuimsg.CalcLoan, "principal"),
		Years:             m.years(tuimsg.CalcLoan),
		AnnualRatePercent: m.value(tuimsg.CalcLoan, "rate"),
		Every:             12,
	}
}

// TaxRequest builds a request from the Tax tab
func (m *ParametersModel) TaxRequest() domain.TaxRequest {
	c := tuimsg.CalcTax
	return domain.TaxRequest{
		Name: m.names[c],
		TaxScenario: domain.TaxScenario{
			GrossIncome: m.value(c, "grossIncome"),
			RentPaid:    m.value(c, "rentPaid"),
			Section80C:  m.value(c, "section80C"),
			Section80D:  m.value(c, "section80D"),
			HRAReceived: m.value(c, "hraReceived"),
			BasicSalary: m.value(c, "basicSalary"),
		},
	}
}

// BudgetRequest builds a request from the Budget tab
func (m *ParametersModel) BudgetRequest() domain.BudgetRequest {
	c := tuimsg.CalcBudget
	return domain.BudgetRequest{
		Name:          m.names[c],
		MonthlyIncome: m.value(c, "income"),
		Rent:          m.value(c, string(domain.ExpenseRent)),
		Food:          m.value(c, string(domain.ExpenseFood)),
		Transport:     m.value(c, string(domain.ExpenseTransport)),
		Entertainment: m.value(c, string(domain.ExpenseEntertainment)),
		Other:         m.value(c, string(domain.ExpenseOther)),
	}
}

// Request builds the request for the active tab
func (m *ParametersModel) Request() any {
	switch m.active {
	case tuimsg.CalcSIP:
		return m.SIPRequest()
	case tuimsg.CalcGoal:
		return m.GoalRequest()
	case tuimsg.CalcLoan:
		return m.LoanRequest()
	case tuimsg.CalcBudget:
		return m.BudgetRequest()
	default:
		return m.TaxRequest()
	}
}

// Load copies a plan entry into its tab and activates it
func (m *ParametersModel) Load(c tuimsg.Calculator, req any) {
	m.buildSliders(c)
	switch r := req.(type) {
	case domain.SIPRequest:
		m.names[c] = r.Name
		m.setValue(c, "contribution", r.Contribution)
		m.setValue(c, "years", dec(int64(r.Years)))
		m.setValue(c, "rate", r.AnnualRatePercent)
	case domain.GoalRequest:
		m.names[c] = r.Name
		m.setValue(c, "target", r.TargetAmount)
		m.setValue(c, "years", dec(int64(r.Years)))
		m.setValue(c, "rate", r.AnnualRatePercent)
		m.setValue(c, "income", r.MonthlyIncome)
	case domain.LoanRequest:
		m.names[c] = r.Name
		m.setValue(c, "principal", r.Principal)
		m.setValue(c, "years", dec(int64(r.Years)))
		m.setValue(c, "rate", r.AnnualRatePercent)
	case domain.TaxRequest:
		m.names[c] = r.Name
		for _, f := range r.Fields() {
			m.setValue(c, f.Name, f.Amount)
		}
	case domain.BudgetRequest:
		m.names[c] = r.Name
		m.setValue(c, "income", r.MonthlyIncome)
		for _, e := range r.Expenses() {
			m.setValue(c, e.Name, e.Amount)
		}
	}
	m.modified = false
	m.SetActive(c)
}

// Update handles messages for the calculator scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	sliders := m.sliders[m.active]
	focus := m.focused[m.active]

	switch {
	case key.Matches(keyMsg, parameterKeys.Up):
		if focus > 0 {
			m.focused[m.active]--
		}
	case key.Matches(keyMsg, parameterKeys.Down):
		if focus < len(sliders)-1 {
			m.focused[m.active]++
		}
	case key.Matches(keyMsg, parameterKeys.Left):
		sliders[focus].Decrement()
		m.modified = true
	case key.Matches(keyMsg, parameterKeys.Right):
		sliders[focus].Increment()
		m.modified = true
	case key.Matches(keyMsg, parameterKeys.PageDown):
		sliders[focus].Jump(-components.JumpSteps)
		m.modified = true
	case key.Matches(keyMsg, parameterKeys.PageUp):
		sliders[focus].Jump(components.JumpSteps)
		m.modified = true
	case key.Matches(keyMsg, parameterKeys.Next):
		m.active = (m.active + 1) % tuimsg.Calculator(len(tuimsg.Calculators))
	case key.Matches(keyMsg, parameterKeys.Prev):
		m.active = (m.active + tuimsg.Calculator(len(tuimsg.Calculators)) - 1) % tuimsg.Calculator(len(tuimsg.Calculators))
	case key.Matches(keyMsg, parameterKeys.Reset):
		m.buildSliders(m.active)
		m.modified = false
	case key.Matches(keyMsg, parameterKeys.Calculate):
		m.modified = false
		return m, m.calculate()
	}

	m.syncFocus()
	return m, nil
}

func (m *ParametersModel) calculate() tea.Cmd {
	calc, req := m.active, m.Request()
	return func() tea.Msg {
		return tuimsg.CalculateRequestedMsg{Calculator: calc, Request: req}
	}
}

// View renders the calculator scene
func (m *ParametersModel) View() string {
	sections := []string{
		renderCalculatorTabs(m.active),
		"",
		renderSliders(m.sliders[m.active]),
	}
	if name := m.names[m.active]; name != "" {
		sections = append(sections, tuistyles.SubtitleStyle.Render("Loaded from plan: "+name))
	}
	if m.modified {
		sections = append(sections, lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Bold(true).
			Render("⚠ Modified - press Enter to calculate or x to reset"))
	}
	sections = append(sections, "", renderParameterHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderCalculatorTabs(active tuimsg.Calculator) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Calculators")

	tabStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Padding(0, 1)
	activeStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorAccent).
		Bold(true).
		Padding(0, 1).
		Background(tuistyles.ColorBorder)

	tabs := make([]string, 0, len(tuimsg.Calculators))
	for _, c := range tuimsg.Calculators {
		if c == active {
			tabs = append(tabs, activeStyle.Render(c.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(c.String()))
		}
	}

	hint := tuistyles.SubtitleStyle.Render("Tab / Shift+Tab to switch calculator")
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), hint)
}

func renderSliders(sliders []*components.ParameterSlider) string {
	rendered := make([]string, 0, len(sliders))
	for _, s := range sliders {
		rendered = append(rendered, s.Render())
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Render(strings.Join(rendered, "\n\n"))
}

func renderParameterHelp() string {
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
		Render("↑/↓ select • ←/→ adjust • [ ] jump ×10 • Enter calculate • x reset • Tab switch")
}
