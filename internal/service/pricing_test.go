package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		TaxRate:         decimal.RequireFromString("0.18"),
		FreeShippingMin: decimal.RequireFromString("500"),
		ShippingFee:     decimal.RequireFromString("50"),
	}
}

func items(priceQty ...string) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(priceQty)/2)
	for i := 0; i < len(priceQty); i += 2 {
		qty, _ := decimal.NewFromString(priceQty[i+1])
		out = append(out, models.OrderItem{
			Price:    decimal.RequireFromString(priceQty[i]),
			Quantity: int(qty.IntPart()),
		})
	}
	return out
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.OrderItem
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{
			name:     "below free shipping threshold",
			items:    items("100", "4"),
			subtotal: "400",
			tax:      "72",
			shipping: "50",
			total:    "522",
		},
		{
			name:     "above free shipping threshold",
			items:    items("100", "6"),
			subtotal: "600",
			tax:      "108",
			shipping: "0",
			total:    "708",
		},
		{
			name:     "exactly at threshold ships free",
			items:    items("250", "2"),
			subtotal: "500",
			tax:      "90",
			shipping: "0",
			total:    "590",
		},
		{
			name:     "fractional subtotal rounds to whole unit",
			items:    items("33.90", "10"),
			subtotal: "339",
			tax:      "61.02",
			shipping: "50",
			total:    "450",
		},
		{
			name:     "half rounds up",
			items:    items("12.50", "2"),
			subtotal: "25",
			tax:      "4.5",
			shipping: "50",
			total:    "80",
		},
		{
			name:     "multiple lines accumulate",
			items:    items("120.50", "2", "59.99", "3"),
			subtotal: "420.97",
			tax:      "75.7746",
			shipping: "50",
			total:    "547",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.items, testPricing())
			assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)),
				"subtotal = %s, want %s", totals.Subtotal, tt.subtotal)
			assert.True(t, totals.Tax.Equal(decimal.RequireFromString(tt.tax)),
				"tax = %s, want %s", totals.Tax, tt.tax)
			assert.True(t, totals.Shipping.Equal(decimal.RequireFromString(tt.shipping)),
				"shipping = %s, want %s", totals.Shipping, tt.shipping)
			assert.True(t, totals.Total.Equal(decimal.RequireFromString(tt.total)),
				"total = %s, want %s", totals.Total, tt.total)
		})
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, testPricing())
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	// An empty cart never reaches pricing in practice; the function still
	// behaves: zero subtotal is below the threshold, so the fee applies.
	assert.True(t, totals.Shipping.Equal(decimal.RequireFromString("50")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("50")))
}
