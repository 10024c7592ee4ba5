package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Offer",
		"Type",
		"Principal",
		"Annual Rate %",
		"Years",
		"EMI",
		"Total Payment",
		"Total Interest",
		"EMI Diff from Base",
		"Interest Diff from Base",
		"Interest % Change",
		"Years Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, offerType string) []string {
	return []string{
		result.OfferName,
		offerType,
		result.Principal.StringFixed(2),
		result.AnnualRatePercent.StringFixed(2),
		strconv.Itoa(result.Years),
		result.Installment.StringFixed(2),
		result.TotalPayment.StringFixed(2),
		result.TotalInterest.StringFixed(2),
		result.InstallmentDiffFromBase.StringFixed(2),
		result.InterestDiffFromBase.StringFixed(2),
		result.InterestPctFromBase.StringFixed(2),
		strconv.Itoa(result.YearsDiff),
	}
}
