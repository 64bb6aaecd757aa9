package domain

import "time"

// Product is a catalog entry as seen by checkout. Stock fields drive the
// availability check at order submission.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	ImageURL      string
	StockQuantity int
	InStock       bool
	CreatedAt     time.Time
}

// Available returns the quantity that can still be sold.
func (p *Product) Available() int {
	return p.StockQuantity
}

// IsAvailable reports whether the product can be ordered at all. A product
// flagged in-stock stays sellable even when the counted quantity is zero
// (quantity tracking is optional for some catalog entries).
func (p *Product) IsAvailable() bool {
	return p.InStock || p.StockQuantity > 0
}
