package service

import (
	"context"

	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// OrderRepository is the persistence boundary for orders and the product
// reads/decrements that placement needs.
type OrderRepository interface {
	// GetProductsByIDs returns the authoritative records for the given
	// product ids. Missing ids are simply absent from the result.
	GetProductsByIDs(ctx context.Context, ids []string) ([]*models.Product, error)

	// CreateOrder persists the order header, items and shipping info and
	// decrements product stock as a single all-or-nothing unit. Stock is
	// re-verified under a row lock; a shortfall fails the whole write with
	// an InsufficientStockError and a lost serialization race with a
	// ConflictError.
	CreateOrder(ctx context.Context, order *models.Order) error

	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByBuyerID(ctx context.Context, buyerID string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) (*models.Order, error)
}

// OrderCache caches enriched orders and per-buyer order lists.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetByBuyerID(ctx context.Context, buyerID string) ([]*models.Order, error)
	SetByBuyerID(ctx context.Context, buyerID string, orders []*models.Order) error
	InvalidateByBuyerID(ctx context.Context, buyerID string) error
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error
	PublishOrderDeleted(ctx context.Context, order *models.Order) error
}

// BuyerValidator checks that a buyer exists and is active.
type BuyerValidator interface {
	ValidateBuyer(ctx context.Context, buyerID string) (bool, error)
}
