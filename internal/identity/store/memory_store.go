package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reda57493110/pixelpad-backend/internal/identity/domain"
)

// MemoryStore implements UserStore with in-memory storage
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*domain.User // lowercased email -> user
	passwords map[string]string       // lowercased email -> password (plain; real auth is out of scope here)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*domain.User),
		passwords: make(map[string]string),
	}
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[normalize(email)]
	if !exists {
		return nil, ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) Create(_ context.Context, user *domain.User, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(user.Email)
	if _, exists := s.users[key]; exists {
		return ErrEmailTaken
	}

	copied := *user
	if copied.ID == "" {
		copied.ID = uuid.New().String()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.users[key] = &copied
	s.passwords[key] = password

	user.ID = copied.ID
	user.CreatedAt = copied.CreatedAt
	return nil
}

func (s *MemoryStore) IncrementOrders(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[normalize(email)]
	if !exists {
		return ErrUserNotFound
	}

	user.OrdersCount++
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
