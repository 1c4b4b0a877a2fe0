// Package pricing computes order totals. All amounts are integer cents;
// fractional results round half away from zero to the nearest cent.
package pricing

import "math"

type Line struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int
}

type Quote struct {
	SubtotalCents int
	TaxCents      int
	ShippingCents int
	TotalCents    int
}

// DefaultTaxRate matches the HST rate charged at checkout.
const DefaultTaxRate = 0.13

// Compute prices a set of lines with a flat shipping cost and a tax rate.
// An empty line set yields a zero subtotal; callers reject empty carts
// before quoting.
func Compute(lines []Line, shippingCents int, taxRate float64) Quote {
	subtotal := 0
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			continue
		}
		subtotal += ln.Quantity * ln.UnitPriceCents
	}

	tax := RoundCents(float64(subtotal) * taxRate)
	return Quote{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		ShippingCents: shippingCents,
		TotalCents:    subtotal + shippingCents + tax,
	}
}

// PercentOf returns percent% of amount in cents, rounded.
func PercentOf(amountCents int, percent float64) int {
	return RoundCents(float64(amountCents) * percent / 100)
}

// RoundCents rounds half away from zero.
func RoundCents(v float64) int {
	if v >= 0 {
		return int(math.Round(v))
	}
	return -int(math.Round(math.Abs(v)))
}
