package store

import (
	"context"
	"sync"
	"time"

	"github.com/reda57493110/pixelpad-backend/internal/catalog/domain"
)

// MemoryStore implements ProductStore with in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

// NewMemoryStore creates a new in-memory product store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*domain.Product),
	}
}

// GetProduct returns a copy of the product with the given id
func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}

	copied := *product
	return &copied, nil
}

// SetStock sets the stock level for a product
func (s *MemoryStore) SetStock(id string, quantity int, inStock bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[id]
	if !exists {
		return ErrProductNotFound
	}

	product.StockQuantity = quantity
	product.InStock = inStock
	return nil
}

// Upsert inserts or replaces a product
func (s *MemoryStore) Upsert(product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	copied := *product
	s.products[product.ID] = &copied
	return nil
}
