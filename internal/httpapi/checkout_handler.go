package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/service"
	identitystore "github.com/reda57493110/pixelpad-backend/internal/identity/store"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type DraftDTO struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	City          string `json:"city"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

type ResumeResponseDTO struct {
	Step         string   `json:"step"`
	Draft        DraftDTO `json:"draft"`
	AutoAdvanced bool     `json:"auto_advanced"`
}

type SubmitResponseDTO struct {
	OrderID         string `json:"order_id"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	OfferConversion bool   `json:"offer_conversion,omitempty"`
	CapturedEmail   string `json:"captured_email,omitempty"`
}

type StockViolationDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Available int    `json:"available,omitempty"`
}

type ConvertRequestDTO struct {
	OrderID         string `json:"order_id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ConvertResponseDTO struct {
	UserID      string `json:"user_id"`
	RedirectURL string `json:"redirect_url"`
}

// GET /api/v1/checkout?step=shipping&guest=1&authOpen=1
func (h *CheckoutHandler) Resume(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp, err := h.checkout.Resume(ctx, &service.ResumeRequest{
		SessionKey:   getSessionKey(r.Context()),
		Identity:     getIdentity(r.Context()),
		RawStep:      r.URL.Query().Get("step"),
		GuestChosen:  r.URL.Query().Get("guest") == "1",
		AuthFormOpen: r.URL.Query().Get("authOpen") == "1",
	})
	if err != nil {
		if errors.Is(err, service.ErrCartEmptied) {
			respondError(w, http.StatusConflict, "cart_empty", "cart is empty, nothing to check out")
			return
		}
		log.Printf("resume checkout failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "resume_failed", "failed to resume checkout")
		return
	}

	respondJSON(w, http.StatusOK, ResumeResponseDTO{
		Step:         resp.Step.String(),
		Draft:        draftToDTO(resp.Draft),
		AutoAdvanced: resp.AutoAdvanced,
	})
}

// PUT /api/v1/checkout/draft
func (h *CheckoutHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DraftDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	d := draftFromDTO(req)
	if err := h.checkout.SaveDraft(ctx, getSessionKey(r.Context()), &d); err != nil {
		log.Printf("save draft failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "save_failed", "failed to save draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/checkout/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DraftDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.Submit(ctx, &service.SubmitRequest{
		SessionKey: getSessionKey(r.Context()),
		Identity:   getIdentity(r.Context()),
		Draft:      draftFromDTO(req),
	})
	if err != nil {
		h.handleSubmitError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitResponseDTO{
		OrderID:         result.OrderID,
		RedirectURL:     result.RedirectURL,
		OfferConversion: result.OfferConversion,
		CapturedEmail:   result.CapturedEmail,
	})
}

func (h *CheckoutHandler) handleSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *service.StockValidationError
	var missingErr *service.MissingFieldsError

	switch {
	case errors.Is(err, service.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "a submission is already in progress")
	case errors.As(err, &stockErr):
		violations := make([]StockViolationDTO, 0, len(stockErr.Violations))
		for _, v := range stockErr.Violations {
			violations = append(violations, StockViolationDTO{
				ProductID: v.Line.ProductID,
				VariantID: v.Line.VariantID,
				Name:      v.Line.Name,
				Quantity:  v.Line.Quantity,
				Reason:    string(v.Reason),
				Available: v.Available,
			})
		}
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "some cart items are no longer available",
			Code:    "stock_violations",
			Details: violations,
		})
	case errors.As(err, &missingErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   missingErr.Error(),
			Code:    "missing_fields",
			Details: missingErr.Fields,
		})
	case errors.Is(err, service.ErrInvalidPhone):
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone must be a valid Moroccan mobile number")
	case errors.Is(err, service.ErrCartEmpty):
		respondError(w, http.StatusBadRequest, "cart_empty", "cart is empty")
	default:
		log.Printf("submit failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "submit_failed", "failed to place order")
	}
}

// POST /api/v1/checkout/convert
func (h *CheckoutHandler) ConvertGuest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ConvertRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id and email are required")
		return
	}

	result, err := h.checkout.ConvertGuest(ctx, &service.ConvertRequest{
		OrderID:         req.OrderID,
		Email:           req.Email,
		FullName:        req.FullName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort), errors.Is(err, service.ErrPasswordMismatch):
			respondError(w, http.StatusBadRequest, "invalid_password", err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, service.ErrOrderMismatch):
			respondError(w, http.StatusForbidden, "order_mismatch", "order was not placed with this email")
		case errors.Is(err, identitystore.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email_taken", "an account with this email already exists")
		default:
			log.Printf("guest conversion failed [%s]: %v", getRequestID(r.Context()), err)
			respondError(w, http.StatusBadGateway, "conversion_failed", "failed to create account")
		}
		return
	}

	respondJSON(w, http.StatusCreated, ConvertResponseDTO{
		UserID:      result.UserID,
		RedirectURL: result.RedirectURL,
	})
}

func draftToDTO(d *domain.Draft) DraftDTO {
	return DraftDTO{
		FullName:      d.FullName,
		Email:         d.Email,
		Phone:         d.Phone,
		City:          d.City,
		Address:       d.Address,
		PaymentMethod: string(d.PaymentMethod),
	}
}

func draftFromDTO(dto DraftDTO) domain.Draft {
	return domain.Draft{
		FullName:      dto.FullName,
		Email:         dto.Email,
		Phone:         dto.Phone,
		City:          dto.City,
		Address:       dto.Address,
		PaymentMethod: domain.PaymentMethod(dto.PaymentMethod),
	}
}
