package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields serialize as JSON numbers, matching the storefront API.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatus is the admin-mutable lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an order header together with its line items and shipping record.
// Everything except OrderStatus is immutable after placement.
type Order struct {
	ID            string          `json:"id"`
	BuyerID       string          `json:"buyer_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
	PaymentMethod string          `json:"payment_method"`
	PaymentInfo   string          `json:"payment_info"`
	OrderStatus   OrderStatus     `json:"order_status"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
	OrderItems    []OrderItem     `json:"order_items"`
	ShippingInfo  *ShippingInfo   `json:"shipping_info,omitempty"`
}

// OrderItem freezes a product's price and display data at placement time,
// decoupled from later catalog changes.
type OrderItem struct {
	ID        string          `json:"order_item_id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Title     string          `json:"title"`
}

// ShippingInfo is the 1:1 shipping record created with an order.
type ShippingInfo struct {
	OrderID  string `json:"order_id,omitempty"`
	FullName string `json:"full_name"`
	State    string `json:"state"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}
