package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// EffectiveUnitPrice applies the product discount, if any, rounded to two
// decimal places. All currency math in this package stays in decimal to
// avoid cent-level drift accumulating across lines.
func EffectiveUnitPrice(price decimal.Decimal, discountPct *decimal.Decimal) decimal.Decimal {
	if discountPct == nil || discountPct.IsZero() {
		return price
	}
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(oneHundred))
	return price.Mul(factor).Round(2)
}

// PricedLine is a cart line with its purchase-time unit price resolved.
type PricedLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type Totals struct {
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	TotalAmount  decimal.Decimal
}

// ComputeTotals prices an order: subtotal over all lines, tax at the
// configured rate rounded to two decimals, a flat shipping fee, and an
// order-level discount (always zero today, kept in the identity so that
// total = subtotal + tax + shipping - discount holds exactly).
func ComputeTotals(lines []PricedLine, taxRate, shippingCost decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	discount := decimal.Zero
	total := subtotal.Add(tax).Add(shippingCost).Sub(discount)
	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shippingCost,
		Discount:     discount,
		TotalAmount:  total,
	}
}
