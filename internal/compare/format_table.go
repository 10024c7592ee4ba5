package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/pkg/money"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing loan offers
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("LOAN OFFER COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Offer: %s\n", compSet.BaseOfferName))
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Offer",
		8, "Rate",
		6, "Years",
		numWidth, "EMI",
		numWidth, "Total Interest"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.OfferName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			// lower is better for both
			sb.WriteString(fmt.Sprintf("  EMI:              %s%s\n",
				tf.deltaSymbol(alt.InstallmentDiffFromBase),
				money.Format(alt.InstallmentDiffFromBase.Abs())))
			sb.WriteString(fmt.Sprintf("  Total Interest:   %s%s (%s%%)\n",
				tf.deltaSymbol(alt.InterestDiffFromBase),
				money.Format(alt.InterestDiffFromBase.Abs()),
				alt.InterestPctFromBase.StringFixed(1)))

			if alt.YearsDiff != 0 {
				sign := "+"
				if alt.YearsDiff < 0 {
					sign = ""
				}
				sb.WriteString(fmt.Sprintf("  Tenure:           %s%d years\n", sign, alt.YearsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single offer row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.OfferName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*d %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		8, result.AnnualRatePercent.StringFixed(2)+"%",
		6, result.Years,
		numWidth, money.Format(result.Installment),
		numWidth, money.Format(result.TotalInterest))
}

// deltaSymbol returns + for increases and - for decreases
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary of interest deltas
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseOfferName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.InterestDiffFromBase.IsPositive() {
			change = "+" + money.Format(alt.InterestDiffFromBase)
		} else if alt.InterestDiffFromBase.IsNegative() {
			change = "-" + money.Format(alt.InterestDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.OfferName, change))
	}

	return sb.String()
}
