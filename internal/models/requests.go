package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderedItem is a client-submitted cart line: a product reference plus a
// requested quantity. The embedded product snapshot is untrusted; price and
// stock are always re-read from the catalog server-side.
type OrderedItem struct {
	Product  OrderedProduct `json:"product"`
	Quantity int            `json:"quantity"`
}

// OrderedProduct is the client's snapshot of the product it ordered.
type OrderedProduct struct {
	ID     string          `json:"id"`
	Name   string          `json:"name,omitempty"`
	Price  decimal.Decimal `json:"price,omitempty"`
	Images []ProductImage  `json:"images,omitempty"`
}

type ProductImage struct {
	URL string `json:"url"`
}

// FirstImageURL returns the first snapshot image URL, or "" if none.
func (p OrderedProduct) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// PlaceOrderRequest is the body of POST /order/new. OrderedItems arrives
// either as a JSON array or as a JSON-encoded string containing one, so it
// is kept raw until decoded.
type PlaceOrderRequest struct {
	FullName      string          `json:"full_name"`
	State         string          `json:"state"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	Address       string          `json:"address"`
	Pincode       string          `json:"pincode"`
	Phone         string          `json:"phone"`
	OrderedItems  json.RawMessage `json:"orderedItems"`
	PaymentMethod string          `json:"payment_method"`
}

// Items decodes the orderedItems payload, accepting both the array form and
// the string-wrapped form the storefront sends from form submissions.
func (r *PlaceOrderRequest) Items() ([]OrderedItem, error) {
	return DecodeOrderedItems(r.OrderedItems)
}

// DecodeOrderedItems decodes a raw orderedItems value into cart lines.
func DecodeOrderedItems(raw json.RawMessage) ([]OrderedItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []OrderedItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	if encoded == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateOrderStatusRequest is the body of PUT /order/admin/update/:orderId.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// PlacedOrder is the successful placement result returned to the buyer.
type PlacedOrder struct {
	OrderID    string          `json:"orderId"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Notification is a message handed to the external notification service.
// Delivery mechanics (templates, email transport) live in that service.
type Notification struct {
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
