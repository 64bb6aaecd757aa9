package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/reda57493110/pixelpad-backend/internal/cart/cache"
	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	"github.com/reda57493110/pixelpad-backend/internal/cart/repository"
)

// CartService fronts cart storage with a read-through cache. Concurrent reads
// of the same cart collapse into one lookup; every mutation goes to the
// repository and drops the cached copy so the next read rebuilds it.
type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	group singleflight.Group
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.group.Do(userID, func() (interface{}, error) {
		return s.loadCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *CartService) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache degrades to repository reads, nothing more.
		log.Printf("cart: cache read for %s: %v", userID, err)
	}

	cart, err := s.repo.GetCart(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		// A shopper with nothing stored yet gets a fresh empty cart.
		now := time.Now()
		return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
	case err != nil:
		return nil, fmt.Errorf("load cart for %s: %w", userID, err)
	}

	// Warm the cache off the request path.
	go func() {
		if err := s.cache.Set(context.Background(), userID, cart); err != nil {
			log.Printf("cart: cache fill for %s: %v", userID, err)
		}
	}()
	return cart, nil
}

func (s *CartService) AddLine(ctx context.Context, userID string, line domain.CartLine) error {
	return s.mutate(userID, func() error {
		return s.repo.AddLine(ctx, userID, line)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, lineKey string, quantity int) error {
	return s.mutate(userID, func() error {
		return s.repo.UpdateQuantity(ctx, userID, lineKey, quantity)
	})
}

func (s *CartService) RemoveLine(ctx context.Context, userID string, lineKey string) error {
	return s.mutate(userID, func() error {
		return s.repo.RemoveLine(ctx, userID, lineKey)
	})
}

// ClearCart empties the cart. Clearing a cart that never existed succeeds;
// the checkout commit path relies on that.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.mutate(userID, func() error {
		if err := s.repo.DeleteCart(ctx, userID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return err
		}
		return nil
	})
}

// mutate applies a repository write and invalidates the cached cart. The
// invalidation gets its own short deadline so a stalled cache cannot hold a
// completed write hostage.
func (s *CartService) mutate(userID string, op func() error) error {
	if err := op(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("cart: cache invalidate for %s: %v", userID, err)
	}
	return nil
}
