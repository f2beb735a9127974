// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// jpy is the display currency; every stored amount is yen
var jpy = *money.New(0, money.JPY).Currency()

// FormatJPY renders a decimal yen amount with the currency's display rules,
// e.g. 1234567 -> "¥1,234,567". JPY carries no minor units, so the amount is
// rounded to whole yen for display only.
func FormatJPY(d decimal.Decimal) string {
	shifted := d.Shift(int32(jpy.Fraction)).Round(0)
	return jpy.Formatter().Format(shifted.IntPart())
}

// FormatPercent renders a percentage with two decimal places, e.g. "42.10%"
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// FormatRate renders a growth rate given as a percent value, e.g. "4.00%"
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
