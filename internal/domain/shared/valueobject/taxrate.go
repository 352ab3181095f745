package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRate is a value object representing a fractional VAT rate
// (0.05 for 5%). It is immutable.
type TaxRate struct {
	rate decimal.Decimal
}

// ZeroTaxRate is the rate applied to tax-exempt amounts.
var ZeroTaxRate = TaxRate{rate: decimal.Zero}

// NewTaxRate creates a TaxRate from a fractional value in [0, 1].
func NewTaxRate(rate decimal.Decimal) (TaxRate, error) {
	if rate.IsNegative() {
		return TaxRate{}, fmt.Errorf("tax rate cannot be negative: %s", rate)
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return TaxRate{}, fmt.Errorf("tax rate cannot exceed 1: %s", rate)
	}
	return TaxRate{rate: rate}, nil
}

// NewTaxRateFromFloat creates a TaxRate from a float64 fraction.
func NewTaxRateFromFloat(rate float64) (TaxRate, error) {
	return NewTaxRate(decimal.NewFromFloat(rate))
}

// MustTaxRate creates a TaxRate, panicking on invalid input. Test helper
// and constant-rate construction.
func MustTaxRate(rate decimal.Decimal) TaxRate {
	t, err := NewTaxRate(rate)
	if err != nil {
		panic(err)
	}
	return t
}

// Rate returns the fractional rate.
func (t TaxRate) Rate() decimal.Decimal {
	return t.rate
}

// IsZero returns true for a zero rate.
func (t TaxRate) IsZero() bool {
	return t.rate.IsZero()
}

// TaxSplit is the result of applying a TaxRate to a base amount.
type TaxSplit struct {
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Split computes the tax on a non-negative base amount and the resulting
// total. Tax is rounded half up to two decimal places to match currency
// display; decimal.Round rounds half away from zero, which is half up
// for the non-negative amounts accepted here.
func (t TaxRate) Split(base decimal.Decimal) (TaxSplit, error) {
	if base.IsNegative() {
		return TaxSplit{}, fmt.Errorf("base amount cannot be negative: %s", base)
	}
	tax := base.Mul(t.rate).Round(2)
	return TaxSplit{
		TaxAmount:   tax,
		TotalAmount: base.Add(tax),
	}, nil
}

// String returns the rate as a percentage string.
func (t TaxRate) String() string {
	return t.rate.Mul(decimal.NewFromInt(100)).String() + "%"
}
