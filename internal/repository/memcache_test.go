package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

func TestMemoryOrderCacheRoundTrip(t *testing.T) {
	cache, err := NewMemoryOrderCache(8)
	require.NoError(t, err)
	ctx := context.Background()

	order := &models.Order{ID: "ord-1", BuyerID: "buyer-1"}

	got, err := cache.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil, nil")

	require.NoError(t, cache.Set(ctx, order))
	got, err = cache.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, got)

	require.NoError(t, cache.Delete(ctx, order.ID))
	got, err = cache.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryOrderCacheBuyerLists(t *testing.T) {
	cache, err := NewMemoryOrderCache(8)
	require.NoError(t, err)
	ctx := context.Background()

	orders := []*models.Order{{ID: "ord-1"}, {ID: "ord-2"}}

	got, err := cache.GetByBuyerID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.SetByBuyerID(ctx, "buyer-1", orders))
	got, err = cache.GetByBuyerID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, orders, got)

	require.NoError(t, cache.InvalidateByBuyerID(ctx, "buyer-1"))
	got, err = cache.GetByBuyerID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryOrderCacheEviction(t *testing.T) {
	cache, err := NewMemoryOrderCache(2)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, cache.Set(ctx, &models.Order{ID: fmt.Sprintf("ord-%d", i)}))
	}

	got, err := cache.Get(ctx, "ord-0")
	require.NoError(t, err)
	assert.Nil(t, got, "oldest entry evicted at capacity")

	got, err = cache.Get(ctx, "ord-2")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
