package cache

import (
	"context"
	"errors"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
)

var ErrCacheMiss = errors.New("cart not cached")

// CartCache holds the rendered cart between page views. It is a read
// accelerator only; the repository stays the source of truth, so every write
// path ends in Invalidate rather than an in-place update.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Invalidate(ctx context.Context, userID string) error
}
