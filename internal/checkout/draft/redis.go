package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
)

// Drafts outlive a browser session but not by much; abandoned checkouts
// should not pile up forever. Addresses are kept far longer.
const (
	draftTTL   = 7 * 24 * time.Hour
	addressTTL = 180 * 24 * time.Hour
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, identityKey string) (*domain.Draft, error) {
	data, err := r.client.Get(ctx, draftKey(identityKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var d domain.Draft
	if err2 := json.Unmarshal(data, &d); err2 != nil {
		return nil, fmt.Errorf("unmarshal draft failed: %w", err2)
	}
	return &d, nil
}

func (r *RedisStore) Save(ctx context.Context, identityKey string, draft *domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft failed: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(identityKey), string(data), draftTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, identityKey string) error {
	if err := r.client.Del(ctx, draftKey(identityKey)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisAddressCache stores the last shipping address per identity.
type RedisAddressCache struct {
	client *redis.Client
}

func NewRedisAddressCache(client *redis.Client) *RedisAddressCache {
	return &RedisAddressCache{client: client}
}

func (r *RedisAddressCache) Get(ctx context.Context, identityKey string) (*CachedAddress, error) {
	data, err := r.client.Get(ctx, addressKey(identityKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var a CachedAddress
	if err2 := json.Unmarshal(data, &a); err2 != nil {
		return nil, fmt.Errorf("unmarshal address failed: %w", err2)
	}
	return &a, nil
}

func (r *RedisAddressCache) Save(ctx context.Context, identityKey string, address *CachedAddress) error {
	data, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("marshal address failed: %w", err)
	}

	if err := r.client.Set(ctx, addressKey(identityKey), string(data), addressTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func draftKey(identityKey string) string {
	return fmt.Sprintf("checkout:draft:%s", identityKey)
}

func addressKey(identityKey string) string {
	return fmt.Sprintf("checkout:address:%s", identityKey)
}
