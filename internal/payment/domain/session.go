package domain

import "time"

// SessionStatus is the lifecycle of a payment session. Every created session
// must end up completed or failed; a session left pending with no linked
// order is the signal of a crashed submission.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

// PaymentSession is the pre-order record capturing intended payment details.
// OrderID is filled in after the order exists, making the two records
// mutually linked.
type PaymentSession struct {
	SessionID     string         `json:"session_id"`
	UserID        string         `json:"user_id"`
	Email         string         `json:"email"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	PaymentMethod string         `json:"payment_method"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	City          string         `json:"city"`
	Address       string         `json:"address"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	OrderID       string         `json:"order_id,omitempty"`
	Status        SessionStatus  `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// SessionPatch is a partial update. Nil fields are left untouched; Metadata
// is merged key-by-key into the existing metadata.
type SessionPatch struct {
	Status   *SessionStatus
	OrderID  *string
	Metadata map[string]any
}
