package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
)

var hundred = decimal.NewFromInt(100)

func sensitivityValueLabel(target domain.SensitivityTarget) string {
	switch target {
	case domain.SensitivitySIP:
		return "Final Value"
	case domain.SensitivityGoal:
		return "Monthly SIP"
	default:
		return "EMI"
	}
}

func writeSensitivity(buf *bytes.Buffer, a *domain.SensitivityAnalysis) {
	fmt.Fprintf(buf, "SENSITIVITY ANALYSIS: %s vs ANNUAL RATE\n", strings.ToUpper(string(a.Target)))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Base Case: %s over %d years at %s\n", FormatCurrency(a.Amount), a.Years, FormatPercentage(a.BaseRatePercent))
	fmt.Fprintf(buf, "Base %s: %s\n", sensitivityValueLabel(a.Target), FormatCurrencyPaise(a.BaseValue))
	fmt.Fprintln(buf)

	loan := a.Target == domain.SensitivityLoan
	if loan {
		fmt.Fprintf(buf, "%-14s %16s %16s %14s\n", "Rate", sensitivityValueLabel(a.Target), "Total Interest", "Change")
	} else {
		fmt.Fprintf(buf, "%-14s %16s %14s\n", "Rate", sensitivityValueLabel(a.Target), "Change")
	}
	fmt.Fprintln(buf, strings.Repeat("-", 65))

	for _, p := range a.Points {
		rate := FormatPercentage(p.AnnualRatePercent)
		if p.AnnualRatePercent.Equal(a.BaseRatePercent) {
			rate += " ← BASE"
		}
		change := fmt.Sprintf("%+.1f%%", p.ChangeFromBasePct.InexactFloat64())
		if loan {
			fmt.Fprintf(buf, "%-14s %16s %16s %14s\n", rate, FormatCurrency(p.Value), FormatCurrency(p.TotalInterest), change)
		} else {
			fmt.Fprintf(buf, "%-14s %16s %14s\n", rate, FormatCurrency(p.Value), change)
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "SENSITIVITY:")
	s := a.Summary
	fmt.Fprintf(buf, "  Range: %s to %s (%s, %s of base)\n",
		FormatCurrency(s.MinValue), FormatCurrency(s.MaxValue), FormatCurrency(s.Range), FormatPercentage(s.RangePct))
	fmt.Fprintf(buf, "  Sensitivity Level: %s\n", s.Sensitivity)
	fmt.Fprintln(buf)
}
