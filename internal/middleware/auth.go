package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenValidator validates a bearer token and returns the acting user's id.
// *auth.JWTManager satisfies it.
type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// ctxKey is unexported so no other package can forge context values.
type ctxKey int

const userIDKey ctxKey = 0

// NewAuthHandler returns a middleware that requires a valid "Bearer" token
// on every request and places the authenticated user's id in the request
// context. Requests without a valid token get 401 and never reach the
// handler.
func NewAuthHandler(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, "authorization token required", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's id placed in ctx by NewAuthHandler.
// The second result is false for unauthenticated requests.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
