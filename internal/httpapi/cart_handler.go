package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	"github.com/reda57493110/pixelpad-backend/internal/cart/service"
)

// CartAPI is the slice of the cart service the HTTP layer uses.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, userID string, line domain.CartLine) error
	UpdateQuantity(ctx context.Context, userID string, lineKey string, quantity int) error
	RemoveLine(ctx context.Context, userID string, lineKey string) error
	ClearCart(ctx context.Context, userID string) error
}

var _ CartAPI = (*service.CartService)(nil)

type CartHandler struct {
	cart    CartAPI
	timeout time.Duration
}

func NewCartHandler(cart CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type AddLineRequestDTO struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.cart.GetCart(ctx, getSessionKey(r.Context()))
	if err != nil {
		log.Printf("get cart failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	key := getSessionKey(r.Context())
	err := h.cart.AddLine(ctx, key, domain.CartLine{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Quantity:  req.Quantity,
		AddedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("add cart line failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to add item")
		return
	}

	cart, err := h.cart.GetCart(ctx, key)
	if err != nil {
		log.Printf("get cart failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

// lineKeyFromRequest rebuilds the cart line key from the product id path
// segment and the optional variant query parameter.
func lineKeyFromRequest(r *http.Request) string {
	key := chi.URLParam(r, "productID")
	if key == "" {
		return ""
	}
	if variant := r.URL.Query().Get("variant"); variant != "" {
		key += "/" + variant
	}
	return key
}

// PUT /api/v1/cart/items/{productID}?variant=
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineKey := lineKeyFromRequest(r)
	if lineKey == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "product id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.cart.UpdateQuantity(ctx, getSessionKey(r.Context()), lineKey, req.Quantity); err != nil {
		log.Printf("update quantity failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to update quantity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/cart/items/{productID}?variant=
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineKey := lineKeyFromRequest(r)
	if lineKey == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "product id is required")
		return
	}

	if err := h.cart.RemoveLine(ctx, getSessionKey(r.Context()), lineKey); err != nil {
		log.Printf("remove cart line failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.ClearCart(ctx, getSessionKey(r.Context())); err != nil {
		log.Printf("clear cart failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
