package services_test

import (
	"testing"

	"marketplace-service/services"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePricing_TwoUnitsAt1000SAR(t *testing.T) {
	// 2 units at 1000 SAR (100000 halalas) each.
	b := services.CalculatePricing([]services.PricedLine{
		{UnitPrice: 100000, Quantity: 2},
	})

	assert.Equal(t, int64(200000), b.Subtotal)
	assert.Equal(t, int64(30000), b.TaxAmount) // 15% VAT
	assert.Equal(t, services.FlatShippingCost, b.ShippingCost)
	assert.Equal(t, int64(200000+30000)+services.FlatShippingCost, b.TotalAmount)
}

func TestCalculatePricing_MultipleLines(t *testing.T) {
	b := services.CalculatePricing([]services.PricedLine{
		{UnitPrice: 45000, Quantity: 3},
		{UnitPrice: 120000, Quantity: 1},
	})

	assert.Equal(t, int64(255000), b.Subtotal)
	assert.Equal(t, int64(38250), b.TaxAmount)
	assert.Equal(t, b.Subtotal+b.TaxAmount+b.ShippingCost-b.DiscountAmount, b.TotalAmount)
}

func TestCalculatePricing_TotalIdentityHolds(t *testing.T) {
	cases := [][]services.PricedLine{
		{},
		{{UnitPrice: 1, Quantity: 1}},
		{{UnitPrice: 99999, Quantity: 7}, {UnitPrice: 3, Quantity: 13}},
	}
	for _, lines := range cases {
		b := services.CalculatePricing(lines)
		assert.Equal(t, b.Subtotal+b.TaxAmount+b.ShippingCost-b.DiscountAmount, b.TotalAmount)
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(300000), services.LineTotal(100000, 3))
}
