package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	identitydomain "github.com/reda57493110/pixelpad-backend/internal/identity/domain"
	identitystore "github.com/reda57493110/pixelpad-backend/internal/identity/store"
	ordersrepo "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
)

var ErrOrderNotFound = ordersrepo.ErrOrderNotFound

type ConvertRequest struct {
	OrderID         string
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
}

type ConvertResult struct {
	UserID      string
	RedirectURL string
}

// ConvertGuest creates an account for a guest who just placed an order, so
// the order shows up under the new profile.
func (s *CheckoutServiceImpl) ConvertGuest(ctx context.Context, req *ConvertRequest) (*ConvertResult, error) {
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	order, err := s.orders.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, ordersrepo.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", req.OrderID, err)
	}
	if !strings.EqualFold(order.Email, req.Email) {
		return nil, ErrOrderMismatch
	}

	user := &identitydomain.User{
		Email:       req.Email,
		FullName:    req.FullName,
		Phone:       order.CustomerPhone,
		OrdersCount: 1,
	}
	if err := s.users.Create(ctx, user, req.Password); err != nil {
		if errors.Is(err, identitystore.ErrEmailTaken) {
			return nil, identitystore.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Printf("checkout: converted guest %s after order %s", req.Email, req.OrderID)
	return &ConvertResult{
		UserID:      user.ID,
		RedirectURL: fmt.Sprintf("/orders?success=1&orderId=%s", req.OrderID),
	}, nil
}
