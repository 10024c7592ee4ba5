package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// ComparisonResult represents a single loan offer with calculated metrics
type ComparisonResult struct {
	OfferName   string `json:"offerName"`
	Description string `json:"description,omitempty"`

	// Offer terms
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	Years             int             `json:"years"`

	// Key Metrics
	Installment   decimal.Decimal `json:"installment"`
	TotalPayment  decimal.Decimal `json:"totalPayment"`
	TotalInterest decimal.Decimal `json:"totalInterest"`

	// Comparison to Base
	InstallmentDiffFromBase decimal.Decimal `json:"installmentDiffFromBase"`
	InterestDiffFromBase    decimal.Decimal `json:"interestDiffFromBase"`
	InterestPctFromBase     decimal.Decimal `json:"interestPctFromBase"`
	YearsDiff               int             `json:"yearsDiff"`
}

// ComparisonSet represents a base offer and its alternatives
type ComparisonSet struct {
	BaseOfferName      string             `json:"baseOfferName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// MetricsCalculator extracts comparison metrics from loan responses
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics builds a comparison row from an offer and its amortization
func (mc *MetricsCalculator) CalculateMetrics(req domain.LoanRequest, resp *domain.LoanResponse) ComparisonResult {
	return ComparisonResult{
		OfferName:         req.Name,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		Years:             req.Years,
		Installment:       resp.Installment,
		TotalPayment:      resp.TotalPayment,
		TotalInterest:     resp.TotalInterest,
	}
}

// CalculateComparison fills in the deltas of an offer against the base
func (mc *MetricsCalculator) CalculateComparison(offer, base ComparisonResult) ComparisonResult {
	offer.InstallmentDiffFromBase = offer.Installment.Sub(base.Installment)
	offer.InterestDiffFromBase = offer.TotalInterest.Sub(base.TotalInterest)

	if !base.TotalInterest.IsZero() {
		offer.InterestPctFromBase = offer.InterestDiffFromBase.
			Div(base.TotalInterest).
			Mul(decimal.NewFromInt(100))
	}

	offer.YearsDiff = offer.Years - base.Years
	return offer
}

// GenerateRecommendations names the alternatives that beat the base on total interest,
// installment and payoff time. Ties keep the earlier offer.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	lowestInterest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalInterest.LessThan(lowestInterest.TotalInterest) {
			lowestInterest = alt
		}
	}
	if lowestInterest != base {
		savings := base.TotalInterest.Sub(lowestInterest.TotalInterest)
		recommendations = append(recommendations,
			"Lowest Interest: "+lowestInterest.OfferName+" saves "+money.Format(savings)+" in total interest")
	}

	lowestEMI := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Installment.LessThan(lowestEMI.Installment) {
			lowestEMI = alt
		}
	}
	if lowestEMI != base {
		diff := base.Installment.Sub(lowestEMI.Installment)
		recommendations = append(recommendations,
			"Lowest EMI: "+lowestEMI.OfferName+" reduces the monthly installment by "+money.Format(diff))
	}

	fastest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Years < fastest.Years {
			fastest = alt
		}
	}
	if fastest != base {
		recommendations = append(recommendations,
			"Fastest Payoff: "+fastest.OfferName+" is paid off "+
				fmt.Sprintf("%d years sooner", base.Years-fastest.Years))
	}

	return recommendations
}
