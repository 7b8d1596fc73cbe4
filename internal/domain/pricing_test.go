package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount *decimal.Decimal
		want     string
	}{
		{"no discount", "75000", nil, "75000"},
		{"zero discount", "75000", decPtr("0"), "75000"},
		{"ten percent", "25000", decPtr("10"), "22500"},
		{"fractional discount rounds to cents", "19.99", decPtr("15"), "16.99"},
		{"half price", "100", decPtr("50"), "50"},
		{"full discount", "100", decPtr("100"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveUnitPrice(dec(tt.price), tt.discount)
			assert.True(t, got.Equal(dec(tt.want)),
				"expected %s, got %s", tt.want, got)
		})
	}
}

func TestComputeTotals_SingleLineNoDiscount(t *testing.T) {
	lines := []PricedLine{
		{ProductID: 1, ProductName: "Beras Premium", Quantity: 2, UnitPrice: dec("75000")},
	}

	totals := ComputeTotals(lines, dec("0.10"), dec("15000"))

	assert.True(t, totals.Subtotal.Equal(dec("150000")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("15000")), "tax: %s", totals.Tax)
	assert.True(t, totals.ShippingCost.Equal(dec("15000")))
	assert.True(t, totals.TotalAmount.Equal(dec("180000")), "total: %s", totals.TotalAmount)
}

func TestComputeTotals_DiscountedLine(t *testing.T) {
	price := EffectiveUnitPrice(dec("25000"), decPtr("10"))
	lines := []PricedLine{
		{ProductID: 2, ProductName: "Minyak Goreng", Quantity: 1, UnitPrice: price},
	}

	totals := ComputeTotals(lines, dec("0.10"), dec("15000"))

	assert.True(t, totals.Subtotal.Equal(dec("22500")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("2250")), "tax: %s", totals.Tax)
	assert.True(t, totals.TotalAmount.Equal(dec("39750")), "total: %s", totals.TotalAmount)
}

func TestComputeTotals_Identity(t *testing.T) {
	lines := []PricedLine{
		{Quantity: 3, UnitPrice: dec("19.99")},
		{Quantity: 1, UnitPrice: dec("0.01")},
		{Quantity: 7, UnitPrice: dec("1234.56")},
	}

	totals := ComputeTotals(lines, dec("0.10"), dec("15000"))

	// total = subtotal + tax + shipping - discount must hold exactly.
	sum := totals.Subtotal.Add(totals.Tax).Add(totals.ShippingCost).Sub(totals.Discount)
	require.True(t, totals.TotalAmount.Equal(sum),
		"identity broken: total %s vs recomputed %s", totals.TotalAmount, sum)
}

func TestComputeTotals_EmptyLines(t *testing.T) {
	totals := ComputeTotals(nil, dec("0.10"), dec("15000"))

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.TotalAmount.Equal(dec("15000")))
}

func TestComputeTotals_RoundsTaxToTwoDecimals(t *testing.T) {
	lines := []PricedLine{
		{Quantity: 1, UnitPrice: dec("0.15")},
	}

	totals := ComputeTotals(lines, dec("0.10"), dec("0"))

	// 0.015 rounds to 0.02 rather than drifting as binary floating point would.
	assert.True(t, totals.Tax.Equal(dec("0.02")), "tax: %s", totals.Tax)
	assert.True(t, totals.TotalAmount.Equal(dec("0.17")), "total: %s", totals.TotalAmount)
}
