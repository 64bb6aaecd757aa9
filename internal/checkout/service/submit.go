package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdomain "github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/draft"
	ordersdomain "github.com/reda57493110/pixelpad-backend/internal/orders/domain"
	paymentdomain "github.com/reda57493110/pixelpad-backend/internal/payment/domain"
)

const orderCurrency = "MAD"

type SubmitRequest struct {
	// SessionKey identifies the checkout session for the in-flight guard and
	// the draft store. The HTTP layer derives it from the caller's identity.
	SessionKey string
	Identity   domain.Identity
	Draft      domain.Draft
}

type SubmitResult struct {
	OrderID     string
	RedirectURL string

	// Guest submissions get a conversion offer instead of a redirect.
	OfferConversion bool
	CapturedEmail   string
}

// Submit runs the order placement saga. Exactly one order is created per
// checkout session no matter how many times it is invoked: a concurrent call
// is rejected and a call after success replays the recorded result.
func (s *CheckoutServiceImpl) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if prev, ok := s.completed.Load(req.SessionKey); ok {
		return prev.(*SubmitResult), nil
	}
	if _, loaded := s.inflight.LoadOrStore(req.SessionKey, struct{}{}); loaded {
		return nil, ErrSubmissionInFlight
	}

	result, err := s.submit(ctx, req)
	if err != nil {
		s.inflight.Delete(req.SessionKey)
		return nil, err
	}

	s.completed.Store(req.SessionKey, result)
	s.inflight.Delete(req.SessionKey)
	return result, nil
}

func (s *CheckoutServiceImpl) submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	d := req.Draft

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"fullName", d.FullName},
		{"phone", d.Phone},
		{"city", d.City},
		{"address", d.Address},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	if !domain.ValidPhone(d.Phone) {
		return nil, ErrInvalidPhone
	}

	cart, err := s.cart.GetCart(ctx, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	// Admins bypass the stock gate; everyone else gets every violation at once.
	if !req.Identity.IsAdmin {
		violations, err := s.validateStock(ctx, cart.Items)
		if err != nil {
			return nil, err
		}
		if len(violations) > 0 {
			return nil, &StockValidationError{Violations: violations}
		}
	}

	now := s.now()
	identityKey := domain.ResolveIdentityKey(req.Identity, d.Email, now)
	total := cart.Total()

	session := &paymentdomain.PaymentSession{
		SessionID:     uuid.New().String(),
		UserID:        req.SessionKey,
		Email:         identityKey,
		Amount:        total,
		Currency:      orderCurrency,
		PaymentMethod: string(d.PaymentMethod),
		CustomerName:  d.FullName,
		CustomerPhone: d.Phone,
		City:          d.City,
		Address:       d.Address,
		Metadata: map[string]any{
			"items":       orderItems(cart.Items),
			"items_count": len(cart.Items),
		},
		Status: paymentdomain.SessionStatusPending,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	orderID := ordersdomain.NewOrderID(now)
	order := &ordersdomain.Order{
		ID:               orderID,
		Date:             now,
		Items:            orderItems(cart.Items),
		Total:            total,
		Status:           ordersdomain.OrderStatusPending,
		CustomerName:     d.FullName,
		CustomerPhone:    d.Phone,
		City:             d.City,
		Address:          d.Address,
		Email:            identityKey,
		IdentityKey:      identityKey,
		PaymentSessionID: session.SessionID,
		PaymentMethod:    string(d.PaymentMethod),
		PaymentStatus:    ordersdomain.PaymentStatusPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.compensateSession(ctx, session.SessionID, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Best effort from here: the order exists, failures below are logged only.
	if err := s.addresses.Save(ctx, identityKey, &draft.CachedAddress{
		FullName: d.FullName,
		Phone:    d.Phone,
		City:     d.City,
		Address:  d.Address,
	}); err != nil {
		log.Printf("checkout: failed to cache address for %s: %v", identityKey, err)
	}

	completed := paymentdomain.SessionStatusCompleted
	if err := s.sessions.UpdateSession(ctx, session.SessionID, paymentdomain.SessionPatch{
		Status:  &completed,
		OrderID: &orderID,
		Metadata: map[string]any{
			"order_total": total,
			"linked_at":   now.UTC().Format("2006-01-02T15:04:05Z07:00"),
		},
	}); err != nil {
		log.Printf("checkout: failed to link session %s to order %s: %v", session.SessionID, orderID, err)
	}

	if req.Identity.Authenticated {
		if err := s.users.IncrementOrders(ctx, req.Identity.Email); err != nil {
			log.Printf("checkout: failed to increment orders for %s: %v", req.Identity.Email, err)
		}
	}

	if err := s.drafts.Clear(ctx, req.SessionKey); err != nil {
		log.Printf("checkout: failed to clear draft for %s: %v", req.SessionKey, err)
	}
	if err := s.cart.ClearCart(ctx, req.SessionKey); err != nil {
		log.Printf("checkout: failed to clear cart for %s: %v", req.SessionKey, err)
	}

	result := &SubmitResult{OrderID: orderID}
	if req.Identity.Authenticated {
		result.RedirectURL = fmt.Sprintf("/orders?success=1&orderId=%s", orderID)
	} else {
		result.OfferConversion = true
		result.CapturedEmail = d.Email
	}
	return result, nil
}

// compensateSession marks the payment session failed after order creation
// fell over, so the reconciler never sees it as recoverable.
func (s *CheckoutServiceImpl) compensateSession(ctx context.Context, sessionID string, cause error) {
	failed := paymentdomain.SessionStatusFailed
	err := s.sessions.UpdateSession(ctx, sessionID, paymentdomain.SessionPatch{
		Status: &failed,
		Metadata: map[string]any{
			"failure_reason": cause.Error(),
			"failed_at":      s.now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("checkout: failed to mark session %s as failed: %v", sessionID, err)
	}
}

func orderItems(lines []cartdomain.CartLine) []ordersdomain.OrderItem {
	items := make([]ordersdomain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, ordersdomain.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      line.Name,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}
	return items
}
