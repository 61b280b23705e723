// Package middleware provides HTTP middleware for the mockstack API.
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mockstack/mockstack/lib/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthTokenHeader carries the bearer credential on every protected request.
const AuthTokenHeader = "X-Auth-Token"

// Authenticator resolves a token to the owning user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// DetailErrorHandler writes an error response in the API's detail envelope.
func DetailErrorHandler(w http.ResponseWriter, detail string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"detail":%q}`, detail)
}

// TokenAuth creates a chi middleware that validates the X-Auth-Token header
// against the token collection. Valid requests continue with the owning user
// id in the context; everything else is answered with 401.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			token := r.Header.Get(AuthTokenHeader)
			userID, err := auth.Authenticate(ctx, token)
			if err != nil {
				log.DebugContext(ctx, "rejected request token", "error", err)
				DetailErrorHandler(w, "Invalid or missing token", http.StatusUnauthorized)
				return
			}

			newCtx := context.WithValue(ctx, userIDKey, userID)
			newCtx = logger.AddToContext(newCtx, log.With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(newCtx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from context.
func GetUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
