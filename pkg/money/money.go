package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency prefix used by Format
const Symbol = "₹"

// Money represents a rupee amount with financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the amount to paise
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// String returns the amount with two decimal places and no grouping
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount in whole rupees with Indian digit grouping, e.g. ₹23,23,391
func (m Money) Format() string {
	return Format(m.Decimal)
}

// FormatPaise renders the amount with two decimals and Indian grouping, e.g. ₹10,623.51
func (m Money) FormatPaise() string {
	return FormatFixed(m.Decimal, 2)
}

// Format renders d rounded to whole rupees with the currency symbol and Indian grouping
func Format(d decimal.Decimal) string {
	return FormatFixed(d, 0)
}

// FormatFixed renders d with the given number of decimal places, the currency
// symbol and Indian grouping (last three digits, then pairs).
func FormatFixed(d decimal.Decimal, places int32) string {
	return Symbol + Group(d, places)
}

// Group renders d with Indian digit grouping and no currency symbol
func Group(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	grouped := groupIndian(intPart)
	if neg && strings.Trim(intPart+frac, "0.") != "" {
		grouped = "-" + grouped
	}
	return grouped + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

// Percent renders a fraction such as 0.125 as "12.50%"
func Percent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Min returns the smaller of two amounts
func Min(a, b Money) Money {
	if a.LessThan(b.Decimal) {
		return a
	}
	return b
}

// Max returns the larger of two amounts
func Max(a, b Money) Money {
	if a.GreaterThan(b.Decimal) {
		return a
	}
	return b
}

// Zero returns a zero amount
func Zero() Money {
	return Money{decimal.Zero}
}

var (
	crore = decimal.NewFromInt(10000000)
	lakh  = decimal.NewFromInt(100000)
	grand = decimal.NewFromInt(1000)
)

// Compact renders d in crore, lakh or thousand units for narrow displays, e.g. ₹23.23L
func Compact(d decimal.Decimal) string {
	abs := d.Abs()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	switch {
	case abs.GreaterThanOrEqual(crore):
		return Symbol + sign + abs.Div(crore).StringFixed(2) + "Cr"
	case abs.GreaterThanOrEqual(lakh):
		return Symbol + sign + abs.Div(lakh).StringFixed(2) + "L"
	case abs.GreaterThanOrEqual(grand):
		return Symbol + sign + abs.Div(grand).StringFixed(1) + "K"
	default:
		return Symbol + sign + abs.StringFixed(0)
	}
}
