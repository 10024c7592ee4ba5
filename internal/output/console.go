package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// ConsoleFormatter renders every section of a report with its series and schedules
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	title := displayName(r.Title, "FINANCIAL PLAN")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, strings.ToUpper(title))
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	if r.RulesVersion != "" {
		fmt.Fprintf(&buf, "Tax rules: %s\n", r.RulesVersion)
	}
	fmt.Fprintln(&buf)

	for i := range r.SIPs {
		writeSIP(&buf, &r.SIPs[i])
	}
	for i := range r.Goals {
		writeGoal(&buf, &r.Goals[i])
	}
	for i := range r.Loans {
		writeLoan(&buf, &r.Loans[i])
	}
	for i := range r.Taxes {
		writeTax(&buf, &r.Taxes[i])
	}
	for i := range r.Budgets {
		writeBudget(&buf, &r.Budgets[i])
	}
	if r.Comparison != nil {
		buf.WriteString((&compare.TableFormatter{}).Format(r.Comparison))
	}
	if r.Sensitivity != nil {
		writeSensitivity(&buf, r.Sensitivity)
	}
	if r.Advice != nil {
		writeAdvice(&buf, r.Advice)
	}
	return buf.Bytes(), nil
}

func heading(buf *bytes.Buffer, text string) {
	fmt.Fprintln(buf, text)
	fmt.Fprintln(buf, strings.Repeat("-", len([]rune(text))))
}

func writeSIP(buf *bytes.Buffer, s *domain.SIPResponse) {
	heading(buf, "SIP PROJECTION: "+displayName(s.Name, "SIP"))
	fmt.Fprintf(buf, "  Final Value:        %s\n", FormatCurrency(s.FinalValue))
	fmt.Fprintf(buf, "  Total Contributed:  %s\n", FormatCurrency(s.TotalContributed))
	fmt.Fprintf(buf, "  Total Gain:         %s\n", FormatCurrency(s.TotalGain))
	if len(s.Series) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintf(buf, "  %-8s %16s %16s %16s\n", "Period", "Contributed", "Value", "Gain")
		for _, p := range s.Series {
			fmt.Fprintf(buf, "  %-8d %16s %16s %16s\n", p.PeriodIndex,
				FormatCurrency(p.TotalContributed), FormatCurrency(p.AccumulatedValue), FormatCurrency(p.Gain))
		}
	}
	fmt.Fprintln(buf)
}

func writeGoal(buf *bytes.Buffer, g *domain.GoalResponse) {
	heading(buf, "GOAL PLAN: "+displayName(g.Name, "Goal"))
	fmt.Fprintf(buf, "  Required Monthly SIP: %s\n", FormatCurrencyPaise(g.RequiredContribution))
	fmt.Fprintf(buf, "  Total Contributed:    %s\n", FormatCurrency(g.TotalContributed))
	if a := g.Affordability; a != nil {
		verdict := "within budget"
		if !a.Affordable {
			verdict = "over budget"
		}
		fmt.Fprintf(buf, "  Affordability:        %s (%s of %s monthly income, limit %s)\n",
			verdict, FormatPercentage(a.ShareOfIncome.Mul(hundred)), FormatCurrency(a.MonthlyIncome), FormatCurrency(a.MaxContribution))
	}
	fmt.Fprintln(buf)
}

func writeLoan(buf *bytes.Buffer, l *domain.LoanResponse) {
	heading(buf, "LOAN AMORTIZATION: "+displayName(l.Name, "Loan"))
	fmt.Fprintf(buf, "  EMI:             %s\n", FormatCurrencyPaise(l.Installment))
	fmt.Fprintf(buf, "  Total Payment:   %s\n", FormatCurrency(l.TotalPayment))
	fmt.Fprintf(buf, "  Total Interest:  %s\n", FormatCurrency(l.TotalInterest))
	if len(l.Schedule) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintf(buf, "  %-8s %14s %14s %14s %16s\n", "Period", "EMI", "Interest", "Principal", "Balance")
		for _, e := range l.Schedule {
			fmt.Fprintf(buf, "  %-8d %14s %14s %14s %16s\n", e.PeriodIndex,
				FormatCurrency(e.Installment), FormatCurrency(e.InterestPortion),
				FormatCurrency(e.PrincipalPortion), FormatCurrency(e.RemainingBalance))
		}
	}
	fmt.Fprintln(buf)
}

func writeTax(buf *bytes.Buffer, t *domain.TaxResponse) {
	heading(buf, "TAX REGIME COMPARISON: "+displayName(t.Name, "Tax"))
	fmt.Fprintf(buf, "  %-22s %16s %16s\n", "", "Old Regime", "New Regime")
	rows := []struct {
		label    string
		old, new string
	}{
		{"Standard Deduction", FormatCurrency(t.OldRegime.StandardDeduction), FormatCurrency(t.NewRegime.StandardDeduction)},
		{"HRA Exemption", FormatCurrency(t.OldRegime.HRAExemption), FormatCurrency(t.NewRegime.HRAExemption)},
		{"80C + 80D", FormatCurrency(t.OldRegime.Deductions), FormatCurrency(t.NewRegime.Deductions)},
		{"Taxable Income", FormatCurrency(t.OldRegime.TaxableIncome), FormatCurrency(t.NewRegime.TaxableIncome)},
		{"Tax Before Cess", FormatCurrency(t.OldRegime.TaxBeforeCess), FormatCurrency(t.NewRegime.TaxBeforeCess)},
		{"Cess", FormatCurrency(t.OldRegime.Cess), FormatCurrency(t.NewRegime.Cess)},
		{"Tax Payable", FormatCurrency(t.OldRegime.TaxPayable), FormatCurrency(t.NewRegime.TaxPayable)},
		{"Marginal Rate", FormatPercentage(t.OldRegime.MarginalRate.Mul(hundred)), FormatPercentage(t.NewRegime.MarginalRate.Mul(hundred))},
	}
	for _, row := range rows {
		fmt.Fprintf(buf, "  %-22s %16s %16s\n", row.label, row.old, row.new)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  Recommended: %s (saves %s)\n", t.RecommendedRegime.Title(), FormatCurrency(t.Savings))
	if t.SwitchSavings != nil {
		if t.SwitchSavings.IsPositive() {
			fmt.Fprintf(buf, "  Current:     %s (switching saves %s)\n", t.CurrentRegime.Title(), FormatCurrency(*t.SwitchSavings))
		} else {
			fmt.Fprintf(buf, "  Current:     %s (already the better regime)\n", t.CurrentRegime.Title())
		}
	}
	if t.RulesVersion != "" {
		fmt.Fprintf(buf, "  Rules:       %s\n", t.RulesVersion)
	}
	if len(t.Suggestions) > 0 {
		fmt.Fprintln(buf, "  Suggestions:")
		for _, s := range t.Suggestions {
			fmt.Fprintf(buf, "    • %s\n", s)
		}
	}
	fmt.Fprintln(buf)
}

func writeBudget(buf *bytes.Buffer, b *domain.BudgetAnalysis) {
	heading(buf, "MONTHLY BUDGET: "+displayName(b.Name, "Budget"))
	fmt.Fprintf(buf, "  Income:          %s\n", FormatCurrency(b.MonthlyIncome))
	fmt.Fprintf(buf, "  Total Expenses:  %s\n", FormatCurrency(b.TotalExpenses))
	fmt.Fprintf(buf, "  Savings:         %s (%s%%)\n", FormatCurrency(b.Savings), b.SavingsPercent.StringFixed(1))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  %-16s %14s %8s\n", "Category", "Amount", "Share")
	for _, a := range b.Allocations {
		fmt.Fprintf(buf, "  %-16s %14s %8s\n", a.Category, FormatCurrency(a.Amount),
			FormatPercentage(a.ShareOfIncome.Mul(hundred)))
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  Verdict: %s\n", b.Verdict)
	fmt.Fprintln(buf)
}

func writeAdvice(buf *bytes.Buffer, env *advice.Envelope) {
	heading(buf, "ADVICE")
	switch env.Kind {
	case advice.KindText:
		for _, tip := range env.Tips {
			fmt.Fprintf(buf, "  • %s\n", tip)
		}
	case advice.KindStructured:
		fmt.Fprintf(buf, "  %-12s %8s %12s %12s %12s\n", "Symbol", "Qty", "Invested", "Now", "P/L")
		for _, o := range env.Outcomes {
			fmt.Fprintf(buf, "  %-12s %8s %12s %12s %12s\n", o.Symbol, o.Quantity.String(),
				FormatCurrency(o.Invested), FormatCurrency(o.CurrentValue), FormatCurrency(o.ProfitLoss))
		}
	case advice.KindRaw:
		fmt.Fprintf(buf, "  %s\n", string(env.Data))
	}
	fmt.Fprintln(buf)
}
