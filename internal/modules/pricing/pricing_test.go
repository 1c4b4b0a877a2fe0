package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	// $50.00 subtotal, $10.00 shipping, 13% tax -> $6.50 tax, $66.50 total.
	q := Compute([]Line{
		{ProductID: "p1", Quantity: 2, UnitPriceCents: 1500},
		{ProductID: "p2", Quantity: 1, UnitPriceCents: 2000},
	}, 1000, DefaultTaxRate)

	assert.Equal(t, 5000, q.SubtotalCents)
	assert.Equal(t, 650, q.TaxCents)
	assert.Equal(t, 1000, q.ShippingCents)
	assert.Equal(t, 6650, q.TotalCents)
}

func TestComputeTotalIdentity(t *testing.T) {
	cases := [][]Line{
		{},
		{{Quantity: 1, UnitPriceCents: 1}},
		{{Quantity: 3, UnitPriceCents: 333}},
		{{Quantity: 7, UnitPriceCents: 1299}, {Quantity: 2, UnitPriceCents: 549}},
	}
	for _, lines := range cases {
		q := Compute(lines, 500, DefaultTaxRate)
		assert.Equal(t, q.SubtotalCents+q.ShippingCents+q.TaxCents, q.TotalCents)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	q := Compute(nil, 1000, DefaultTaxRate)
	assert.Equal(t, 0, q.SubtotalCents)
	assert.Equal(t, 0, q.TaxCents)
	assert.Equal(t, 1000, q.TotalCents) // shipping only
}

func TestComputeIgnoresNonPositiveQuantities(t *testing.T) {
	q := Compute([]Line{
		{Quantity: 0, UnitPriceCents: 999},
		{Quantity: -2, UnitPriceCents: 999},
		{Quantity: 1, UnitPriceCents: 999},
	}, 0, 0)
	assert.Equal(t, 999, q.SubtotalCents)
}

func TestPercentOfRounding(t *testing.T) {
	// 5% of $66.50 is $3.325 -> rounds to $3.33.
	assert.Equal(t, 333, PercentOf(6650, 5))
	// 10% of $66.50 -> $6.65.
	assert.Equal(t, 665, PercentOf(6650, 10))
	assert.Equal(t, 0, PercentOf(0, 50))
}
