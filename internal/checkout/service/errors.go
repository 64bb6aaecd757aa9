package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCartEmptied        = errors.New("cart emptied during checkout")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrOrderMismatch      = errors.New("order does not belong to this email")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// MissingFieldsError names the required shipping fields the draft left blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// StockValidationError carries every violating cart line, never just the first.
type StockValidationError struct {
	Violations []domain.StockViolation
}

func (e *StockValidationError) Error() string {
	return fmt.Sprintf("stock validation failed for %d cart line(s)", len(e.Violations))
}
