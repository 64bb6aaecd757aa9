package domain

import (
	"github.com/reda57493110/pixelpad-backend/internal/cart/domain"
)

// ViolationReason classifies why a cart line cannot be fulfilled.
type ViolationReason string

const (
	ViolationNotFound     ViolationReason = "not_found"
	ViolationOutOfStock   ViolationReason = "out_of_stock"
	ViolationInsufficient ViolationReason = "insufficient_quantity"
)

// StockViolation is one failed line from a validation pass. Available is only
// meaningful for insufficient_quantity.
type StockViolation struct {
	Line      domain.CartLine `json:"line"`
	Reason    ViolationReason `json:"reason"`
	Available int             `json:"available,omitempty"`
}
