package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
)

type contextKey string

const (
	identityKey   contextKey = "identity"
	sessionKeyKey contextKey = "session_key"
	requestIDKey  contextKey = "request_id"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityMiddleware resolves the caller from the edge headers. An upstream
// auth proxy sets X-User-Email for signed-in users; guests carry a browser
// session id in X-Guest-Session. One of the two must be present.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.Identity{
			Email:    strings.TrimSpace(r.Header.Get("X-User-Email")),
			FullName: strings.TrimSpace(r.Header.Get("X-User-Name")),
			IsAdmin:  r.Header.Get("X-User-Admin") == "true",
		}
		identity.Authenticated = identity.Email != ""

		sessionKey := identity.Email
		if sessionKey == "" {
			sessionKey = strings.TrimSpace(r.Header.Get("X-Guest-Session"))
		}
		if sessionKey == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized",
				"missing user authentication or guest session")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		ctx = context.WithValue(ctx, sessionKeyKey, sessionKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getIdentity(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(identityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}

func getSessionKey(ctx context.Context) string {
	if key, ok := ctx.Value(sessionKeyKey).(string); ok {
		return key
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
