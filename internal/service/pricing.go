package service

import (
	"github.com/shopspring/decimal"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// Totals is the pricing breakdown for an order.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives the order totals from priced line items. Shipping is
// free at or above the configured threshold, tax applies to the subtotal,
// and the grand total rounds half-up to the nearest whole currency unit.
// Pure function; placement and checkout preview both use it.
func ComputeTotals(items []models.OrderItem, pricing config.PricingConfig) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tax := subtotal.Mul(pricing.TaxRate)

	shipping := pricing.ShippingFee
	if subtotal.GreaterThanOrEqual(pricing.FreeShippingMin) {
		shipping = decimal.Zero
	}

	total := subtotal.Add(tax).Add(shipping).Round(0)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    total,
	}
}
