package payment

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/reda57493110/pixelpad-backend/internal/payment/domain"
	"github.com/reda57493110/pixelpad-backend/internal/payment/repository"
)

// SessionManager is the boundary the checkout saga talks to. Session storage
// is external state; a misbehaving backend should fail fast instead of
// stalling every submission, so writes go through a circuit breaker.
type SessionManager interface {
	CreateSession(ctx context.Context, session *domain.PaymentSession) error
	UpdateSession(ctx context.Context, sessionID string, patch domain.SessionPatch) error
	GetSession(ctx context.Context, sessionID string) (*domain.PaymentSession, error)
}

type Manager struct {
	repo    repository.RepoInterface
	breaker *gobreaker.CircuitBreaker[any]
}

func NewManager(repo repository.RepoInterface) *Manager {
	settings := gobreaker.Settings{
		Name:    "payment-sessions",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Manager{
		repo:    repo,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (m *Manager) CreateSession(ctx context.Context, session *domain.PaymentSession) error {
	_, err := m.breaker.Execute(func() (any, error) {
		return nil, m.repo.CreateSession(ctx, session)
	})
	return err
}

func (m *Manager) UpdateSession(ctx context.Context, sessionID string, patch domain.SessionPatch) error {
	_, err := m.breaker.Execute(func() (any, error) {
		return nil, m.repo.UpdateSession(ctx, sessionID, patch)
	})
	return err
}

func (m *Manager) GetSession(ctx context.Context, sessionID string) (*domain.PaymentSession, error) {
	session, err := m.breaker.Execute(func() (any, error) {
		return m.repo.GetSession(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return session.(*domain.PaymentSession), nil
}
