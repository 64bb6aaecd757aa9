package domain

import (
	"fmt"
	"time"
)

// Identity is the acting checkout identity: an authenticated user, or a guest
// who may still provide an email on the form.
type Identity struct {
	Authenticated bool
	Email         string // set only when Authenticated
	FullName      string
	IsAdmin       bool
}

// ResolveIdentityKey picks the key that payment sessions, orders and the
// cached address are filed under. Precedence: authenticated email, then the
// email typed into the form, then a generated guest placeholder. The
// placeholder embeds a unix-milli timestamp so two anonymous checkouts never
// collide.
func ResolveIdentityKey(identity Identity, formEmail string, now time.Time) string {
	if identity.Authenticated && identity.Email != "" {
		return identity.Email
	}
	if formEmail != "" {
		return formEmail
	}
	return fmt.Sprintf("guest_%d@pixelpad.local", now.UnixMilli())
}
