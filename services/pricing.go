package services

// Pricing constants. Amounts are in halalas (1 SAR = 100 halalas).
const (
	// VATRatePercent is the Saudi VAT rate applied to the subtotal.
	VATRatePercent int64 = 15
	// FlatShippingCost is the fixed MVP shipping fee (50 SAR).
	FlatShippingCost int64 = 5000
)

// PricedLine is one validated line going into the calculation.
type PricedLine struct {
	UnitPrice int64
	Quantity  int
}

// PriceBreakdown holds the derived monetary fields of an order. The identity
// TotalAmount == Subtotal + TaxAmount + ShippingCost - DiscountAmount holds
// for every breakdown produced here.
type PriceBreakdown struct {
	Subtotal       int64
	TaxAmount      int64
	ShippingCost   int64
	DiscountAmount int64
	TotalAmount    int64
}

// CalculatePricing computes the order totals from validated lines. Pure
// function: no I/O, reproducible for the same input.
func CalculatePricing(lines []PricedLine) PriceBreakdown {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	tax := subtotal * VATRatePercent / 100

	b := PriceBreakdown{
		Subtotal:     subtotal,
		TaxAmount:    tax,
		ShippingCost: FlatShippingCost,
	}
	b.TotalAmount = b.Subtotal + b.TaxAmount + b.ShippingCost - b.DiscountAmount
	return b
}

// LineTotal computes the immutable per-item total captured on an OrderItem.
func LineTotal(unitPrice int64, quantity int) int64 {
	return unitPrice * int64(quantity)
}
