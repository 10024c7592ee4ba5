package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
)

// DefaultBaseOfferName is used when the base request carries no name
const DefaultBaseOfferName = "Base offer"

// CompareEngine orchestrates loan offer comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine with the built-in templates
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// Compare amortizes the base offer, every explicit alternative and every template
// applied to the base, in that order
func (ce *CompareEngine) Compare(ctx context.Context, req domain.LoanComparisonRequest) (*ComparisonSet, error) {
	if len(req.Alternatives) == 0 && len(req.Templates) == 0 {
		return nil, domain.InvalidArgument("CompareLoans", "alternatives", "at least one alternative offer or template is required")
	}

	base := req.Base
	if base.Name == "" {
		base.Name = DefaultBaseOfferName
	}
	baseResult, err := ce.evaluate(base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base offer: %w", err)
	}

	alternatives := []ComparisonResult{}

	for i, alt := range req.Alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if alt.Name == "" {
			alt.Name = fmt.Sprintf("Offer %d", i+1)
		}
		altResult, err := ce.evaluate(alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate offer %s: %w", alt.Name, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	for _, templateName := range req.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, domain.InvalidArgument("CompareLoans", "templates", "template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = template.Name

		altResult, err := ce.evaluate(modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate template %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseOfferName:      base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) evaluate(req domain.LoanRequest) (ComparisonResult, error) {
	// schedules are not part of a comparison; keep the first and final periods only
	req.Every = req.Years * domain.DefaultPeriodsPerYear
	resp, err := ce.CalcEngine.Loan(req)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(req, resp), nil
}
