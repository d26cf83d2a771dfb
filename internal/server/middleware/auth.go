package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/rulekeeper/internal/server/handlers"
	"github.com/iudanet/rulekeeper/internal/server/jwt"
)

type contextKey string

const subjectKey contextKey = "subject"

//go:generate moq -out validator_mock.go . TokenValidator

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header and stores the token
// subject in the request context
func Auth(logger *slog.Logger, validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.WriteError(w, http.StatusUnauthorized, "Authentication is required")
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				handlers.WriteError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			logger.Debug("Request authenticated", "subject", claims.Subject)
			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated subject, empty for anonymous requests
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}
