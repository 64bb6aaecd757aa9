package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func seedCachedCart(t *testing.T, mr *miniredis.Miniredis, c *RedisCache, cart *domain.Cart) {
	t.Helper()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set(c.key(cart.UserID), string(data)))
}

func TestGet_Success(t *testing.T) {
	c, mr := setupTestRedis(t)

	cart := &domain.Cart{
		UserID: "user123",
		Items: []domain.CartLine{
			{ProductID: "p1", Name: "Sketch Pad", Price: 100, Quantity: 2},
			{ProductID: "p2", Name: "Pencil Set", Price: 40, Quantity: 3},
		},
	}
	seedCachedCart(t, mr, c, cart)

	result, err := c.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, float64(320), result.Total())
}

func TestGet_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	result, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_CorruptPayload(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(c.key("user123"), `{"user_id":`))

	_, err := c.Get(context.Background(), "user123")
	require.ErrorContains(t, err, "cart cache decode")
}

func TestSet_RoundTripsAndExpires(t *testing.T) {
	c, mr := setupTestRedis(t)

	cart := &domain.Cart{
		UserID: "user456",
		Items:  []domain.CartLine{{ProductID: "p10", Name: "Marker", Price: 12.5, Quantity: 5}},
	}
	require.NoError(t, c.Set(context.Background(), "user456", cart))

	stored, err := c.Get(context.Background(), "user456")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, stored.Items)

	// TTL lands inside the jitter window.
	ttl := mr.TTL(c.key("user456"))
	assert.GreaterOrEqual(t, ttl, cartTTL)
	assert.Less(t, ttl, cartTTL+maxJitter)
}

func TestInvalidate(t *testing.T) {
	c, mr := setupTestRedis(t)
	seedCachedCart(t, mr, c, &domain.Cart{UserID: "user789"})

	require.NoError(t, c.Invalidate(context.Background(), "user789"))
	assert.False(t, mr.Exists(c.key("user789")))

	// Dropping an absent key is not an error.
	assert.NoError(t, c.Invalidate(context.Background(), "user789"))
}
