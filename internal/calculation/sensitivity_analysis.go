package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultSweepConcurrency bounds the number of rates evaluated at once
const DefaultSweepConcurrency = 8

// SensitivityAnalyzer repeats a calculation across a range of annual rates
type SensitivityAnalyzer struct {
	engine      *CalculationEngine
	Concurrency int
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{engine: engine, Concurrency: DefaultSweepConcurrency}
}

// Analyze evaluates the request at every swept rate concurrently. Points are returned in
// ascending rate order regardless of completion order; the first failure cancels the rest.
func (sa *SensitivityAnalyzer) Analyze(ctx context.Context, req domain.SensitivityRequest) (*domain.SensitivityAnalysis, error) {
	if _, err := domain.ParseSensitivityTarget(string(req.Target)); err != nil {
		return nil, domain.InvalidArgument("Sensitivity", "target", "%v", err)
	}
	rates, err := req.Sweep.Rates()
	if err != nil {
		return nil, err
	}

	base, err := sa.evaluate(req, req.BaseRatePercent)
	if err != nil {
		return nil, fmt.Errorf("base rate %s%%: %w", req.BaseRatePercent, err)
	}

	points := make([]domain.SensitivityPoint, len(rates))
	g, gctx := errgroup.WithContext(ctx)
	limit := sa.Concurrency
	if limit <= 0 {
		limit = DefaultSweepConcurrency
	}
	g.SetLimit(limit)

	for i, rate := range rates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := sa.evaluate(req, rate)
			if err != nil {
				return fmt.Errorf("rate %s%%: %w", rate, err)
			}
			p.ChangeFromBase = p.Value.Sub(base.Value)
			if !base.Value.IsZero() {
				p.ChangeFromBasePct = p.ChangeFromBase.DivRound(base.Value, 6).Mul(decimalHundred)
			}
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &domain.SensitivityAnalysis{
		Target:          req.Target,
		Amount:          req.Amount,
		Years:           req.Years,
		BaseRatePercent: req.BaseRatePercent,
		BaseValue:       base.Value,
		Points:          points,
		Summary:         summarize(points, base.Value),
	}
	sa.engine.Logger.Debugf("sensitivity %s: %d rates, range %s", req.Target, len(points), analysis.Summary.Range.StringFixed(2))
	return analysis, nil
}

func (sa *SensitivityAnalyzer) evaluate(req domain.SensitivityRequest, annualPercent decimal.Decimal) (domain.SensitivityPoint, error) {
	p := domain.SensitivityPoint{
		AnnualRatePercent: annualPercent,
		PeriodicRate:      PeriodicRate(annualPercent, domain.DefaultPeriodsPerYear),
	}
	switch req.Target {
	case domain.SensitivitySIP:
		resp, err := sa.engine.SIP(domain.SIPRequest{Contribution: req.Amount, Years: req.Years, AnnualRatePercent: annualPercent})
		if err != nil {
			return p, err
		}
		p.Value = resp.FinalValue
	case domain.SensitivityGoal:
		resp, err := sa.engine.Goal(domain.GoalRequest{TargetAmount: req.Amount, Years: req.Years, AnnualRatePercent: annualPercent})
		if err != nil {
			return p, err
		}
		p.Value = resp.RequiredContribution
	case domain.SensitivityLoan:
		resp, err := sa.engine.Loan(domain.LoanRequest{Principal: req.Amount, Years: req.Years, AnnualRatePercent: annualPercent, Every: req.Years * domain.DefaultPeriodsPerYear})
		if err != nil {
			return p, err
		}
		p.Value = resp.Installment
		p.TotalInterest = resp.TotalInterest
	}
	return p, nil
}

func summarize(points []domain.SensitivityPoint, base decimal.Decimal) domain.SensitivitySummary {
	if len(points) == 0 {
		return domain.SensitivitySummary{Sensitivity: "LOW"}
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = decimal.Min(lo, p.Value)
		hi = decimal.Max(hi, p.Value)
	}
	s := domain.SensitivitySummary{MinValue: lo, MaxValue: hi, Range: hi.Sub(lo)}
	if !base.IsZero() {
		s.RangePct = s.Range.DivRound(base, 6).Mul(decimalHundred)
	}

	switch {
	case s.RangePct.GreaterThan(decimal.NewFromInt(50)):
		s.Sensitivity = "HIGH"
	case s.RangePct.GreaterThan(decimal.NewFromInt(15)):
		s.Sensitivity = "MEDIUM"
	default:
		s.Sensitivity = "LOW"
	}
	return s
}
