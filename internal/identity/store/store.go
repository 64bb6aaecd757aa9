package store

import (
	"context"
	"errors"

	"github.com/reda57493110/pixelpad-backend/internal/identity/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore defines the interface for account storage operations
type UserStore interface {
	// GetByEmail returns the user registered under email, or ErrUserNotFound
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create registers a new account; ErrEmailTaken when the email exists
	Create(ctx context.Context, user *domain.User, password string) error

	// IncrementOrders bumps the profile order counter, best-effort from the
	// caller's point of view
	IncrementOrders(ctx context.Context, email string) error
}
