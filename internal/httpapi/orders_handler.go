package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reda57493110/pixelpad-backend/internal/orders/domain"
	"github.com/reda57493110/pixelpad-backend/internal/orders/repository"
)

type OrdersHandler struct {
	orders  repository.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(orders repository.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrderItemDTO struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

type OrderResponseDTO struct {
	ID            string         `json:"id"`
	Date          time.Time      `json:"date"`
	Items         []OrderItemDTO `json:"items"`
	Total         float64        `json:"total"`
	Status        string         `json:"status"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	City          string         `json:"city"`
	Address       string         `json:"address"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := getIdentity(r.Context())
	if !identity.Authenticated {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to view orders")
		return
	}

	orders, err := h.orders.ListOrdersByIdentity(ctx, identity.Email)
	if err != nil {
		log.Printf("list orders failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "orders_unavailable", "failed to load orders")
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{orderID}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order id is required")
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		log.Printf("get order failed [%s]: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "orders_unavailable", "failed to load order")
		return
	}

	// Guests can only see orders placed under their own identity key.
	identity := getIdentity(r.Context())
	if !identity.IsAdmin && !strings.EqualFold(order.IdentityKey, effectiveIdentityKey(r)) {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// effectiveIdentityKey is the email an order lookup is allowed against: the
// signed-in email, or the guest email passed back from the conversion offer.
func effectiveIdentityKey(r *http.Request) string {
	identity := getIdentity(r.Context())
	if identity.Authenticated {
		return identity.Email
	}
	return r.URL.Query().Get("email")
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}
	return OrderResponseDTO{
		ID:            o.ID,
		Date:          o.Date,
		Items:         items,
		Total:         o.Total,
		Status:        string(o.Status),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		City:          o.City,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
	}
}
