package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
)

// Keyed per shopper next to the checkout keys (checkout:draft:*,
// checkout:address:*) in the same Redis.
const (
	keyPrefix = "cart:user:"

	// A cart older than this is rebuilt from the repository. The jitter
	// spreads expirations so carts warmed together do not all fall out of
	// the cache in the same instant.
	cartTTL   = 15 * time.Minute
	maxJitter = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) key(userID string) string {
	return keyPrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("cart cache get: %w", err)
	}

	cart := new(domain.Cart)
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("cart cache decode: %w", err)
	}
	return cart, nil
}

func (c *RedisCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart cache encode: %w", err)
	}

	ttl := cartTTL + time.Duration(rand.Int63n(int64(maxJitter)))
	if err := c.client.Set(ctx, c.key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("cart cache invalidate: %w", err)
	}
	return nil
}
