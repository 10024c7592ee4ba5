package scenes

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

const maxTableRows = 10

// ResultsModel represents the results display scene
type ResultsModel struct {
	calculator tuimsg.Calculator
	result     any
	width      int
	height     int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult updates the response to display
func (m *ResultsModel) SetResult(c tuimsg.Calculator, result any) {
	m.calculator = c
	m.result = result
}

// HasResult reports whether a calculation has completed
func (m *ResultsModel) HasResult() bool { return m.result != nil }

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

func (m *ResultsModel) chartWidth() int {
	if m.width > 20 {
		return min(m.width-6, 90)
	}
	return 60
}

// View renders the results scene
func (m *ResultsModel) View() string {
	var body string
	switch r := m.result.(type) {
	case *domain.SIPResponse:
		body = m.renderSIP(r)
	case *domain.GoalResponse:
		body = m.renderGoal(r)
	case *domain.LoanResponse:
		body = m.renderLoan(r)
	case *domain.TaxResponse:
		body = m.renderTax(r)
	case *domain.BudgetAnalysis:
		body = m.renderBudget(r)
	default:
		return renderNoResultsState()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderResultsHeader(m.calculator, m.result),
		"",
		body,
		"",
		renderResultsHelp(),
	)
}

func renderNoResultsState() string {
	return `No results to display.

Set up a calculation in the calculator (press 'c') and press Enter.

Press ESC to go back.`
}

func resultName(result any) string {
	switch r := result.(type) {
	case *domain.SIPResponse:
		return r.Name
	case *domain.GoalResponse:
		return r.Name
	case *domain.LoanResponse:
		return r.Name
	case *domain.TaxResponse:
		return r.Name
	case *domain.BudgetAnalysis:
		return r.Name
	}
	return ""
}

func renderResultsHeader(c tuimsg.Calculator, result any) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.String() + " Results")
	if name := resultName(result); name != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(name))
	}
	return title
}

func (m *ResultsModel) renderSIP(r *domain.SIPResponse) string {
	cards := []*components.MetricCard{
		components.NewAmountCard("Total invested", r.TotalContributed).WithWidth(26),
		components.NewAmountCard("Final value", r.FinalValue).WithAmountDelta(r.TotalGain, true).WithWidth(26),
	}
	if r.TotalContributed.IsPositive() {
		multiple := r.FinalValue.Div(r.TotalContributed).StringFixed(2) + "x"
		cards = append(cards, components.NewMetricCard("Growth multiple", multiple).WithWidth(26))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, 3),
		"",
		m.growthChart("Portfolio value by year", r.Series),
		"",
		renderProjectionTable(r.Series),
	)
}

func (m *ResultsModel) renderGoal(r *domain.GoalResponse) string {
	cards := []*components.MetricCard{
		components.NewMetricCard("Required monthly SIP", money.FormatFixed(r.RequiredContribution, 2)).WithWidth(26),
		components.NewAmountCard("Total invested", r.TotalContributed).WithWidth(26),
	}
	if n := len(r.Series); n > 0 {
		cards = append(cards, components.NewAmountCard("Value at horizon", r.Series[n-1].AccumulatedValue).WithWidth(26))
	}

	sections := []string{components.MetricGrid(cards, 3)}
	if a := r.Affordability; a != nil {
		bar := components.NewShareBar("Share of monthly income", a.ShareOfIncome).
			WithLimit(calculation.MaxInvestmentShare).
			WithWidth(40)
		verdict := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render("✓ Affordable within " + money.Format(a.MaxContribution) + " a month")
		if !a.Affordable {
			verdict = lipgloss.NewStyle().Foreground(tuistyles.ColorDanger).Render("✗ Above the investable " + money.Format(a.MaxContribution) + " a month; consider a longer horizon")
		}
		sections = append(sections, "", bar.Render(), verdict)
	}
	sections = append(sections, "", m.growthChart("Path to the goal", r.Series))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ResultsModel) renderLoan(r *domain.LoanResponse) string {
	cards := []*components.MetricCard{
		components.NewMetricCard("Monthly EMI", money.FormatFixed(r.Installment, 2)).WithWidth(26),
		components.NewAmountCard("Total interest", r.TotalInterest).WithWidth(26),
		components.NewAmountCard("Total payment", r.TotalPayment).WithWidth(26),
	}

	sections := []string{components.MetricGrid(cards, 3)}
	if r.TotalPayment.IsPositive() {
		share := r.TotalInterest.Div(r.TotalPayment)
		sections = append(sections, "", components.NewShareBar("Interest share of payments", share).WithWidth(40).Render())
	}

	if len(r.Schedule) > 0 {
		balances := make([]decimal.Decimal, len(r.Schedule))
		labels := make([]string, len(r.Schedule))
		for i, e := range r.Schedule {
			balances[i] = e.RemainingBalance
			labels[i] = "P" + strconv.Itoa(e.PeriodIndex)
		}
		chart := components.NewASCIIChart("Outstanding balance").
			WithSize(m.chartWidth(), 10).
			AddDecimalSeries("Balance", balances, tuistyles.ColorChartLine4).
			WithLabels(labels).
			WithXAxisLabel("Installment")
		sections = append(sections, "", chart.Render(), "", renderScheduleTable(r.Schedule))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ResultsModel) renderTax(r *domain.TaxResponse) string {
	regimeCard := func(o domain.RegimeOutcome) *components.EntryCard {
		card := components.NewEntryCard(o.Regime.Title(), "").WithWidth(38).
			AddHighlight("Taxable income " + money.Format(o.TaxableIncome)).
			AddHighlight("Tax payable " + money.Format(o.TaxPayable)).
			AddHighlight("Marginal rate " + money.Percent(o.MarginalRate))
		if o.StandardDeduction.IsPositive() {
			card.AddHighlight("Standard deduction " + money.Format(o.StandardDeduction))
		}
		if o.HRAExemption.IsPositive() {
			card.AddHighlight("HRA exemption " + money.Format(o.HRAExemption))
		}
		if o.Deductions.IsPositive() {
			card.AddHighlight("80C + 80D " + money.Format(o.Deductions))
		}
		if o.Cess.IsPositive() {
			card.AddHighlight("Cess " + money.Format(o.Cess))
		}
		if o.RebateApplied {
			card.AddHighlight("Section 87A rebate applied")
		}
		return card.SetSelected(o.Regime == r.RecommendedRegime)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top, regimeCard(r.OldRegime).Render(), " ", regimeCard(r.NewRegime).Render())

	verdict := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Bold(true).
		Render(fmt.Sprintf("★ %s recommended • saves %s", r.RecommendedRegime.Title(), money.Format(r.Savings)))

	var tips strings.Builder
	tips.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary).Render("Suggestions"))
	for _, s := range r.Suggestions {
		tips.WriteString("\n  • " + s)
	}

	sections := []string{cards, "", verdict}
	if r.SwitchSavings != nil {
		current := "You are on the " + r.CurrentRegime.Title() + ", already the better choice"
		if r.SwitchSavings.IsPositive() {
			current = "You are on the " + r.CurrentRegime.Title() + "; switching saves " + money.Format(*r.SwitchSavings)
		}
		sections = append(sections, tuistyles.SubtitleStyle.Render(current))
	}
	sections = append(sections, "", tips.String())
	if r.RulesVersion != "" {
		sections = append(sections, "", tuistyles.SubtitleStyle.Render("Rules "+r.RulesVersion))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ResultsModel) renderBudget(b *domain.BudgetAnalysis) string {
	cards := []*components.MetricCard{
		components.NewAmountCard("Income", b.MonthlyIncome).WithWidth(26),
		components.NewAmountCard("Expenses", b.TotalExpenses).WithWidth(26),
		components.NewMetricCard("Savings", money.Format(b.Savings)+" ("+b.SavingsPercent.StringFixed(1)+"%)").WithWidth(26),
	}

	bars := make([]string, 0, len(b.Allocations))
	for _, a := range b.Allocations {
		bar := components.NewShareBar(string(a.Category)+" "+money.Format(a.Amount), a.ShareOfIncome).WithWidth(40)
		bars = append(bars, bar.Render())
	}

	style := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Bold(true)
	if !b.MeetsTarget {
		style = lipgloss.NewStyle().Foreground(tuistyles.ColorDanger).Bold(true)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, 3),
		"",
		strings.Join(bars, "\n"),
		"",
		style.Render(b.Verdict),
	)
}

func (m *ResultsModel) growthChart(title string, series []domain.ProjectionPoint) string {
	if len(series) == 0 {
		return ""
	}
	values := make([]decimal.Decimal, len(series))
	invested := make([]decimal.Decimal, len(series))
	labels := make([]string, len(series))
	for i, p := range series {
		values[i] = p.AccumulatedValue
		invested[i] = p.TotalContributed
		labels[i] = "P" + strconv.Itoa(p.PeriodIndex)
	}
	return components.NewASCIIChart(title).
		WithSize(m.chartWidth(), 10).
		AddDecimalSeries("Value", values, tuistyles.ColorChartLine1).
		AddDecimalSeries("Invested", invested, tuistyles.ColorChartLine2).
		WithLabels(labels).
		WithXAxisLabel("Period").
		Render()
}

func tableStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1)
}

func renderProjectionTable(series []domain.ProjectionPoint) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-8s %16s %16s %16s", "Period", "Invested", "Value", "Gain")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 59))
	for i, p := range series {
		if i == maxTableRows {
			b.WriteString("\n" + tuistyles.SubtitleStyle.Render(fmt.Sprintf("... and %d more rows", len(series)-maxTableRows)))
			break
		}
		b.WriteString(fmt.Sprintf("\n%-8d %16s %16s %16s", p.PeriodIndex,
			money.Format(p.TotalContributed), money.Format(p.AccumulatedValue), money.Format(p.Gain)))
	}
	return tableStyle().Render(b.String())
}

func renderScheduleTable(schedule []domain.AmortizationEntry) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-8s %14s %14s %16s", "Period", "Interest", "Principal", "Balance")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 55))
	for i, e := range schedule {
		if i == maxTableRows {
			b.WriteString("\n" + tuistyles.SubtitleStyle.Render(fmt.Sprintf("... and %d more rows", len(schedule)-maxTableRows)))
			break
		}
		b.WriteString(fmt.Sprintf("\n%-8d %14s %14s %16s", e.PeriodIndex,
			money.Format(e.InterestPortion), money.Format(e.PrincipalPortion), money.Format(e.RemainingBalance)))
	}
	return tableStyle().Render(b.String())
}

func renderResultsHelp() string {
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
		Render("ESC back • c calculator • o loan offers • s rate sensitivity • h home")
}
