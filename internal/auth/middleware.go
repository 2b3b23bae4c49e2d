package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth/jwt"
	"github.com/gokatarajesh/quiz-session/internal/logging"
	httperrors "github.com/gokatarajesh/quiz-session/pkg/http/errors"
)

type claimsKey struct{}

// AuthMiddleware validates bearer tokens and injects session claims into the
// request context. Requests without an Authorization header pass through.
func AuthMiddleware(authSvc *Service, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Parse "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := authSvc.ValidateToken(parts[1])
			if err != nil {
				log := logging.FromContext(r.Context(), logger)
				log.Warn().Err(err).Msg("token validation failed")
				code := httperrors.ErrCodeInvalidToken
				if errors.Is(err, jwt.ErrExpiredToken) {
					code = httperrors.ErrCodeTokenExpired
				}
				httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireSession rejects requests that carry no session claims.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionIDFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Session token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims stores validated claims in ctx.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// SessionIDFromContext returns the session bound to the request, if any.
func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.SessionID, true
}
