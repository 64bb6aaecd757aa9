package domain

// PaymentMethod is the selected way to pay. Cash on delivery is the only
// supported method today; the field stays open for future gateways.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cod"
)

// Draft is the in-progress copy of the shipping and payment form. It is
// persisted on every field change so a reload resumes the flow without
// losing input.
type Draft struct {
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	City          string        `json:"city"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// ShippingComplete reports whether all shipping fields are filled, the guard
// for moving past the shipping step.
func (d *Draft) ShippingComplete() bool {
	return d.FullName != "" && d.Email != "" && d.Phone != "" && d.City != "" && d.Address != ""
}

// IsEmpty reports whether nothing has been entered yet. Used to decide if the
// draft should be pre-filled from an authenticated identity.
func (d *Draft) IsEmpty() bool {
	return *d == Draft{}
}

// Prefill copies name and email from an authenticated identity into an empty
// draft. A previously saved draft is never overwritten.
func (d *Draft) Prefill(fullName, email string) {
	if !d.IsEmpty() {
		return
	}
	d.FullName = fullName
	d.Email = email
}
