package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/draft"
)

type ResumeRequest struct {
	SessionKey string
	Identity   domain.Identity
	// RawStep is the step name from the request, untrusted.
	RawStep string
	// GuestChosen reports that the caller explicitly continued as guest.
	GuestChosen bool
	// AuthFormOpen suppresses the auto-advance so a login or register form
	// in progress is not yanked away.
	AuthFormOpen bool
}

type ResumeResponse struct {
	Step         domain.Step
	Draft        *domain.Draft
	AutoAdvanced bool
}

// Resume restores a checkout session: parses and guards the requested step,
// prefills an empty draft from the authenticated profile, and advances an
// authenticated caller past the auth step exactly once.
func (s *CheckoutServiceImpl) Resume(ctx context.Context, req *ResumeRequest) (*ResumeResponse, error) {
	cart, err := s.cart.GetCart(ctx, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		if _, inflight := s.inflight.Load(req.SessionKey); !inflight {
			if _, done := s.completed.Load(req.SessionKey); !done {
				return nil, ErrCartEmptied
			}
		}
	} else if _, done := s.completed.LoadAndDelete(req.SessionKey); done {
		// A refilled cart starts a new checkout session.
		s.advanced.Delete(req.SessionKey)
	}

	d, err := s.drafts.Get(ctx, req.SessionKey)
	if err != nil {
		if !errors.Is(err, draft.ErrDraftNotFound) {
			return nil, fmt.Errorf("failed to load draft: %w", err)
		}
		d = &domain.Draft{}
	}

	if req.Identity.Authenticated && d.IsEmpty() {
		d.Prefill(req.Identity.FullName, req.Identity.Email)
		if err := s.drafts.Save(ctx, req.SessionKey, d); err != nil {
			log.Printf("checkout: failed to persist prefilled draft for %s: %v", req.SessionKey, err)
		}
	}

	identityEstablished := req.Identity.Authenticated || req.GuestChosen
	step := domain.Guard(domain.ParseStep(req.RawStep), identityEstablished, d)

	resp := &ResumeResponse{Step: step, Draft: d}
	if step == domain.StepAuth && req.Identity.Authenticated && !req.AuthFormOpen {
		if _, already := s.advanced.LoadOrStore(req.SessionKey, struct{}{}); !already {
			resp.Step = domain.StepShipping
			resp.AutoAdvanced = true
		}
	}
	return resp, nil
}

// SaveDraft persists the in-progress shipping and payment form. Called on
// every field change, so it validates nothing.
func (s *CheckoutServiceImpl) SaveDraft(ctx context.Context, sessionKey string, d *domain.Draft) error {
	if err := s.drafts.Save(ctx, sessionKey, d); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}
