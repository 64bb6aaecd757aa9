package domain

import "time"

// User is a storefront account. Guest checkouts create no user; the guest
// conversion flow may create one afterwards, reusing the order's email.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	IsGuest     bool      `json:"is_guest"`
	OrdersCount int       `json:"orders_count"`
	CreatedAt   time.Time `json:"created_at"`
}
