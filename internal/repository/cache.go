package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

const (
	orderKeyPrefix    = "order:"
	buyerOrdersPrefix = "buyer_orders:"
	defaultCacheTTL   = 5 * time.Minute
)

// RedisOrderCache implements service.OrderCache using Redis.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(cfg config.RedisConfig) *RedisOrderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logging.New("order-cache"),
	}
}

// Get retrieves an order from cache. A miss returns (nil, nil).
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss", logging.Fields{"order_id": id})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

// Delete removes an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, orderKeyPrefix+id).Err()
}

// GetByBuyerID retrieves a buyer's cached order list. A miss returns (nil, nil).
func (c *RedisOrderCache) GetByBuyerID(ctx context.Context, buyerID string) ([]*models.Order, error) {
	data, err := c.client.Get(ctx, buyerOrdersPrefix+buyerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []*models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetByBuyerID caches a buyer's order list.
func (c *RedisOrderCache) SetByBuyerID(ctx context.Context, buyerID string, orders []*models.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, buyerOrdersPrefix+buyerID, data, c.ttl).Err()
}

// InvalidateByBuyerID drops a buyer's cached order list.
func (c *RedisOrderCache) InvalidateByBuyerID(ctx context.Context, buyerID string) error {
	return c.client.Del(ctx, buyerOrdersPrefix+buyerID).Err()
}
