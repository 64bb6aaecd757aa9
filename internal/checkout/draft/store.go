package draft

import (
	"context"
	"errors"

	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
)

var ErrDraftNotFound = errors.New("draft not found")

// Store persists the in-progress checkout form per identity. Writes happen on
// every field change; a dropped write loses at most one autosave.
type Store interface {
	Get(ctx context.Context, identityKey string) (*domain.Draft, error)
	Save(ctx context.Context, identityKey string, draft *domain.Draft) error
	Clear(ctx context.Context, identityKey string) error
}

// CachedAddress is the single remembered shipping address per identity,
// written best-effort after a successful order.
type CachedAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Address  string `json:"address"`
}

type AddressCache interface {
	Get(ctx context.Context, identityKey string) (*CachedAddress, error)
	Save(ctx context.Context, identityKey string, address *CachedAddress) error
}
