package service

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	catalogstore "github.com/reda57493110/pixelpad-backend/internal/catalog/store"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
)

// validateStock checks every cart line against the catalog and returns the
// full set of violations. A lookup failure aborts the check entirely rather
// than letting an unverified line through.
func (s *CheckoutServiceImpl) validateStock(ctx context.Context, lines []cartdomain.CartLine) ([]domain.StockViolation, error) {
	var violations []domain.StockViolation
	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalogstore.ErrProductNotFound) {
				violations = append(violations, domain.StockViolation{
					Line:   line,
					Reason: domain.ViolationNotFound,
				})
				continue
			}
			return nil, fmt.Errorf("failed to look up product %s: %w", line.ProductID, err)
		}

		if !product.IsAvailable() {
			violations = append(violations, domain.StockViolation{
				Line:   line,
				Reason: domain.ViolationOutOfStock,
			})
			continue
		}

		wanted := line.Quantity
		if wanted < 1 {
			wanted = 1
		}
		// A zero count with the in-stock flag set means quantity is not
		// tracked for this product; only tracked counts gate the quantity.
		available := product.Available()
		if available > 0 && available < wanted {
			violations = append(violations, domain.StockViolation{
				Line:      line,
				Reason:    domain.ViolationInsufficient,
				Available: available,
			})
		}
	}
	return violations, nil
}
