package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/pkg/money"
)

// FormatCurrency formats an amount in whole rupees with Indian grouping
func FormatCurrency(amount decimal.Decimal) string {
	return money.Format(amount)
}

// FormatCurrencyPaise formats an amount with two decimals and Indian grouping
func FormatCurrencyPaise(amount decimal.Decimal) string {
	return money.FormatFixed(amount, 2)
}

// FormatPercentage formats a value that is already a percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

func intToString(i int) string {
	return strconv.Itoa(i)
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
