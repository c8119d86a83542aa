package repository

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// MemoryOrderCache is a bounded in-process service.OrderCache used when
// Redis is not configured, typically in development and tests.
type MemoryOrderCache struct {
	orders      *lru.Cache[string, *models.Order]
	buyerOrders *lru.Cache[string, []*models.Order]
}

// NewMemoryOrderCache creates an LRU-backed order cache holding up to size
// entries per keyspace.
func NewMemoryOrderCache(size int) (*MemoryOrderCache, error) {
	orders, err := lru.New[string, *models.Order](size)
	if err != nil {
		return nil, err
	}
	buyerOrders, err := lru.New[string, []*models.Order](size)
	if err != nil {
		return nil, err
	}
	return &MemoryOrderCache{
		orders:      orders,
		buyerOrders: buyerOrders,
	}, nil
}

func (c *MemoryOrderCache) Get(_ context.Context, id string) (*models.Order, error) {
	if order, ok := c.orders.Get(id); ok {
		return order, nil
	}
	return nil, nil
}

func (c *MemoryOrderCache) Set(_ context.Context, order *models.Order) error {
	c.orders.Add(order.ID, order)
	return nil
}

func (c *MemoryOrderCache) Delete(_ context.Context, id string) error {
	c.orders.Remove(id)
	return nil
}

func (c *MemoryOrderCache) GetByBuyerID(_ context.Context, buyerID string) ([]*models.Order, error) {
	if orders, ok := c.buyerOrders.Get(buyerID); ok {
		return orders, nil
	}
	return nil, nil
}

func (c *MemoryOrderCache) SetByBuyerID(_ context.Context, buyerID string, orders []*models.Order) error {
	c.buyerOrders.Add(buyerID, orders)
	return nil
}

func (c *MemoryOrderCache) InvalidateByBuyerID(_ context.Context, buyerID string) error {
	c.buyerOrders.Remove(buyerID)
	return nil
}
