package output

import (
	"bytes"
	"fmt"
)

// ConsoleLiteFormatter prints one line per calculation
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range r.SIPs {
		fmt.Fprintf(&buf, "SIP %-20s final %s, contributed %s, gain %s\n", displayName(s.Name, "-"),
			FormatCurrency(s.FinalValue), FormatCurrency(s.TotalContributed), FormatCurrency(s.TotalGain))
	}
	for _, g := range r.Goals {
		line := fmt.Sprintf("GOAL %-19s monthly %s", displayName(g.Name, "-"), FormatCurrencyPaise(g.RequiredContribution))
		if g.Affordability != nil {
			if g.Affordability.Affordable {
				line += ", affordable"
			} else {
				line += ", over budget"
			}
		}
		fmt.Fprintln(&buf, line)
	}
	for _, l := range r.Loans {
		fmt.Fprintf(&buf, "LOAN %-19s EMI %s, interest %s\n", displayName(l.Name, "-"),
			FormatCurrencyPaise(l.Installment), FormatCurrency(l.TotalInterest))
	}
	for _, t := range r.Taxes {
		fmt.Fprintf(&buf, "TAX %-20s old %s, new %s, choose %s (saves %s)\n", displayName(t.Name, "-"),
			FormatCurrency(t.OldRegime.TaxPayable), FormatCurrency(t.NewRegime.TaxPayable),
			t.RecommendedRegime, FormatCurrency(t.Savings))
	}
	for _, b := range r.Budgets {
		fmt.Fprintf(&buf, "BUDGET %-17s expenses %s, savings %s (%s%%)\n", displayName(b.Name, "-"),
			FormatCurrency(b.TotalExpenses), FormatCurrency(b.Savings), b.SavingsPercent.StringFixed(1))
	}
	if r.Comparison != nil {
		fmt.Fprintf(&buf, "%d loan offers compared against %s\n", len(r.Comparison.AlternativeResults), r.Comparison.BaseOfferName)
		for _, rec := range r.Comparison.Recommendations {
			fmt.Fprintf(&buf, "  %s\n", rec)
		}
	}
	if a := r.Sensitivity; a != nil {
		fmt.Fprintf(&buf, "SENSITIVITY %s: %s to %s across %d rates (%s)\n", a.Target,
			FormatCurrency(a.Summary.MinValue), FormatCurrency(a.Summary.MaxValue), len(a.Points), a.Summary.Sensitivity)
	}
	if r.Advice != nil && len(r.Advice.Tips) > 0 {
		fmt.Fprintf(&buf, "ADVICE %s\n", r.Advice.Tips[0])
	}
	return buf.Bytes(), nil
}
