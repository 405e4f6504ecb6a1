// Package moneypkg provides parsing and formatting rules for currency amounts.
//
// Amounts travel through the application as decimal strings; this package is
// the single place that turns untrusted input into a canonical amount.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalid indicates an amount that is unparsable, non-positive, or more
// precise than the ledger stores.
var ErrInvalid = errors.New("invalid money amount")

// Exponent is the number of decimal places every stored amount carries.
const Exponent = 2

// Parse validates that s is a strictly positive amount with at most two
// decimal places and returns its canonical form.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalid
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrInvalid
	}

	if d.Exponent() < -Exponent {
		return decimal.Decimal{}, ErrInvalid
	}

	return d, nil
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Exponent)
}

// FormatString renders a stored amount string with exactly two decimal
// places. Unparsable input is returned as is.
func FormatString(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}

	return Format(d)
}
