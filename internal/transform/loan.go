package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// ChangeTenure lengthens or shortens the loan by a number of years
type ChangeTenure struct {
	Years int
}

func (ct *ChangeTenure) Apply(base domain.LoanRequest) (domain.LoanRequest, error) {
	next := base
	next.Years = base.Years + ct.Years
	return next, nil
}

func (ct *ChangeTenure) Name() string { return "change_tenure" }

func (ct *ChangeTenure) Description() string {
	if ct.Years < 0 {
		return fmt.Sprintf("Shorten tenure by %d years", -ct.Years)
	}
	return fmt.Sprintf("Extend tenure by %d years", ct.Years)
}

func (ct *ChangeTenure) Validate(base domain.LoanRequest) error {
	if ct.Years == 0 {
		return NewTransformError(ct.Name(), "validate", "tenure change must not be zero", nil)
	}
	if base.Years+ct.Years < 1 {
		return NewTransformError(ct.Name(), "validate",
			fmt.Sprintf("tenure of %d years would drop below 1 year", base.Years), nil)
	}
	return nil
}

// AdjustRate moves the annual rate by DeltaPercent percentage points
type AdjustRate struct {
	DeltaPercent decimal.Decimal
}

func (ar *AdjustRate) Apply(base domain.LoanRequest) (domain.LoanRequest, error) {
	next := base
	next.AnnualRatePercent = base.AnnualRatePercent.Add(ar.DeltaPercent)
	return next, nil
}

func (ar *AdjustRate) Name() string { return "adjust_rate" }

func (ar *AdjustRate) Description() string {
	bps := ar.DeltaPercent.Mul(decimal.NewFromInt(100)).Abs().StringFixed(0)
	if ar.DeltaPercent.IsNegative() {
		return fmt.Sprintf("Negotiate the rate down by %s bps", bps)
	}
	return fmt.Sprintf("Rate up by %s bps", bps)
}

func (ar *AdjustRate) Validate(base domain.LoanRequest) error {
	if ar.DeltaPercent.IsZero() {
		return NewTransformError(ar.Name(), "validate", "rate change must not be zero", nil)
	}
	if base.AnnualRatePercent.Add(ar.DeltaPercent).IsNegative() {
		return NewTransformError(ar.Name(), "validate",
			fmt.Sprintf("rate of %s%% would become negative", base.AnnualRatePercent), nil)
	}
	return nil
}

// Prepay reduces the principal by an upfront payment expressed as a share of it
type Prepay struct {
	Share decimal.Decimal // 0.10 prepays 10% of the principal
}

func (p *Prepay) Apply(base domain.LoanRequest) (domain.LoanRequest, error) {
	next := base
	next.Principal = base.Principal.Sub(base.Principal.Mul(p.Share)).Round(2)
	return next, nil
}

func (p *Prepay) Name() string { return "prepay" }

func (p *Prepay) Description() string {
	return fmt.Sprintf("Prepay %s%% of the principal upfront", p.Share.Mul(decimal.NewFromInt(100)).StringFixed(0))
}

func (p *Prepay) Validate(base domain.LoanRequest) error {
	if !p.Share.IsPositive() || p.Share.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewTransformError(p.Name(), "validate",
			fmt.Sprintf("prepayment share must be between 0 and 1, got %s", p.Share), nil)
	}
	if !base.Principal.IsPositive() {
		return NewTransformError(p.Name(), "validate", "principal must be positive", nil)
	}
	return nil
}
