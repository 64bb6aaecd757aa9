package repository

import (
	"context"
	"errors"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	AddLine(ctx context.Context, userID string, line domain.CartLine) error
	UpdateQuantity(ctx context.Context, userID string, lineKey string, quantity int) error
	RemoveLine(ctx context.Context, userID string, lineKey string) error
	DeleteCart(ctx context.Context, userID string) error
}
