package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// UserResolver loads the account behind a verified token subject.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// TokenVerifier checks an access token and returns its subject user ID.
type TokenVerifier interface {
	VerifyAccess(token string) (string, error)
}

// RequireAuth rejects requests without a valid access token and stores the
// authenticated user in the request context. The token is read from the
// accessToken cookie first, then from the Authorization header.
func RequireAuth(users UserResolver, tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w, r, "authentication required")
				return
			}

			userID, err := tokens.VerifyAccess(token)
			if err != nil {
				unauthorized(w, r, "invalid access token")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, r, "invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser stores the authenticated user on the context.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	logging.FromContext(r.Context()).Info("request rejected",
		"status", http.StatusUnauthorized, "reason", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	payload := map[string]any{
		"statusCode": http.StatusUnauthorized,
		"data":       nil,
		"message":    message,
		"success":    false,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(r.Context()).Error("encode unauthorized response", "error", err)
	}
}
