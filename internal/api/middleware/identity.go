package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/sketchgame/internal/api/apierr"
	"github.com/mcoot/sketchgame/internal/model"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// UserIDHeader carries the caller's opaque user id
const UserIDHeader = "X-User-ID"

// Identity requires an opaque user id on every request. It is read from
// the X-User-ID header, a bearer token or the user_id query parameter, in
// that order.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := extractUserID(r)
			if userID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractUserID extracts the user id from the request
func extractUserID(r *http.Request) model.PlayerID {
	if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
		return model.PlayerID(id)
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if id := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); id != "" {
			return model.PlayerID(id)
		}
	}

	// Browsers cannot set headers on EventSource or WebSocket requests
	return model.PlayerID(strings.TrimSpace(r.URL.Query().Get("user_id")))
}

// WithUserID returns a context carrying the user id
func WithUserID(ctx context.Context, userID model.PlayerID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserID returns the caller's user id from the request context
func GetUserID(ctx context.Context) model.PlayerID {
	userID, _ := ctx.Value(userIDContextKey).(model.PlayerID)
	return userID
}

// MustGetUserID returns the caller's user id or panics
func MustGetUserID(ctx context.Context) model.PlayerID {
	userID := GetUserID(ctx)
	if userID == "" {
		panic("no user id in context - identity middleware not applied?")
	}
	return userID
}
