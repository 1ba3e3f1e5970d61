package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/blogapp/backend/internal/errors"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserContext is the identity resolved from a verified token. The email
// claim is trusted for the remainder of the request; the user record is
// not re-fetched.
type UserContext struct {
	Email string
}

// Middleware authenticates requests with a bearer token. Requests without
// a valid token never reach the wrapped handler.
func Middleware(authService *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := apperrors.GetRequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := authService.VerifyToken(parts[1])
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					apperrors.WriteError(w, requestID, apperrors.TokenExpired())
					return
				}
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("invalid access token"))
				return
			}

			userCtx := &UserContext{
				Email: claims.Email,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated identity, or nil when the
// request did not pass through Middleware.
func GetUserFromContext(ctx context.Context) *UserContext {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return user
}
