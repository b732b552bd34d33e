package services

import "math"

// Pricing holds the order totals rule. Amounts are computed in integer cents and converted back
// to currency units only for storage.
type Pricing struct {
	TaxRate      float64
	FlatShipping float64
}

// DefaultPricing is a 10% tax rate and a flat 10.00 shipping charge.
var DefaultPricing = Pricing{TaxRate: 0.10, FlatShipping: 10.00}

// PricedLine is a unit price and quantity.
type PricedLine struct {
	UnitPrice float64
	Quantity  int
}

// OrderTotals is the monetary breakdown of an order.
type OrderTotals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Discount float64
	Total    float64
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Totals computes subtotal = Σ(price × quantity), tax = subtotal × rate, shipping = flat rate and
// total = subtotal + tax + shipping. Shipping applies regardless of cart size.
func (p Pricing) Totals(lines []PricedLine) OrderTotals {
	var subtotal int64
	for _, line := range lines {
		subtotal += toCents(line.UnitPrice) * int64(line.Quantity)
	}
	tax := int64(math.Round(float64(subtotal) * p.TaxRate))
	shipping := toCents(p.FlatShipping)
	return OrderTotals{
		Subtotal: fromCents(subtotal),
		Tax:      fromCents(tax),
		Shipping: fromCents(shipping),
		Total:    fromCents(subtotal + tax + shipping),
	}
}

// Subtotal is Σ(price × quantity) in currency units.
func Subtotal(lines []PricedLine) float64 {
	var cents int64
	for _, line := range lines {
		cents += toCents(line.UnitPrice) * int64(line.Quantity)
	}
	return fromCents(cents)
}
