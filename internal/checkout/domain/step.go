package domain

// Step is one screen of the guided checkout flow. The current step is driven
// by the `step` query parameter so reloads and back/forward navigation land on
// a consistent screen.
type Step string

const (
	StepAuth     Step = "auth"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

var stepOrder = []Step{StepAuth, StepShipping, StepPayment, StepReview}

// ParseStep maps a raw query value to a step. Anything invalid or missing
// resets the flow to auth.
func ParseStep(raw string) Step {
	switch Step(raw) {
	case StepAuth, StepShipping, StepPayment, StepReview:
		return Step(raw)
	default:
		return StepAuth
	}
}

func (s Step) String() string {
	return string(s)
}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return 0
}

// Next returns the step after s. Review has no successor; submission exits
// the machine instead.
func (s Step) Next() (Step, bool) {
	i := s.index()
	if i >= len(stepOrder)-1 {
		return s, false
	}
	return stepOrder[i+1], true
}

// Prev returns the step before s. Backward moves are always allowed and never
// lose draft data.
func (s Step) Prev() (Step, bool) {
	i := s.index()
	if i == 0 {
		return s, false
	}
	return stepOrder[i-1], true
}

// After reports whether s comes after other in the flow.
func (s Step) After(other Step) bool {
	return s.index() > other.index()
}

// Guard reports whether the flow may sit on step s given the identity and
// draft, and returns the furthest allowed step otherwise. A reload pointing
// at a later step than the data supports is clamped back.
func Guard(s Step, identityEstablished bool, draft *Draft) Step {
	if !identityEstablished {
		return StepAuth
	}
	if s.After(StepShipping) && !draft.ShippingComplete() {
		return StepShipping
	}
	if s.After(StepPayment) && draft.PaymentMethod == "" {
		return StepPayment
	}
	return s
}
