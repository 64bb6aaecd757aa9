package domain

import "time"

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartLine `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartLine is a single orderable line. Price is captured when the line is
// added so the total shown during checkout matches what gets ordered.
type CartLine struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	VariantID string    `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Key identifies a line inside a cart. Two lines for the same product with
// different variants stay separate.
func (l CartLine) Key() string {
	if l.VariantID == "" {
		return l.ProductID
	}
	return l.ProductID + "/" + l.VariantID
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Total returns the running total over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
