package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderItem is a cart line frozen at submission time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Order is the record created once per successful checkout submission.
// PaymentSessionID points at the session created before the order; the
// session's order_id points back here once linkage succeeds.
type Order struct {
	ID               string        `json:"id"`
	Date             time.Time     `json:"date"`
	Items            []OrderItem   `json:"items"`
	Total            float64       `json:"total"`
	Status           OrderStatus   `json:"status"`
	CustomerName     string        `json:"customer_name"`
	CustomerPhone    string        `json:"customer_phone"`
	City             string        `json:"city"`
	Address          string        `json:"address"`
	Email            string        `json:"email"`
	IdentityKey      string        `json:"identity_key"`
	PaymentSessionID string        `json:"payment_session_id"`
	PaymentMethod    string        `json:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
}

// NewOrderID builds the human-presentable order token from a timestamp.
// Millisecond granularity makes collisions negligible for a single
// storefront; this is not a cryptographic identifier.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}
