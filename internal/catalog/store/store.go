package store

import (
	"context"
	"errors"

	"github.com/reda57493110/pixelpad-backend/internal/catalog/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductStore defines the interface for catalog storage operations
type ProductStore interface {
	// GetProduct returns the product with the given id, or ErrProductNotFound
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// SetStock sets the stock level for a product (used for initialization)
	SetStock(id string, quantity int, inStock bool) error

	// Upsert inserts or replaces a product
	Upsert(product *domain.Product) error
}
