package middleware

import (
	"context"
	"net/http"
	"strings"

	"elecdesign/internal/auth"

	"go.uber.org/zap"
)

type AuthMiddleware struct {
	verifier *auth.Verifier
	logr     *zap.Logger
}

type contextKey string

const (
	ContextUserIDKey contextKey = "userID"
	ContextRolesKey  contextKey = "roles"
)

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(verifier *auth.Verifier, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logr:     logr,
	}
}

// JWTAuth validates the token and attaches user info to request context
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token rejected", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		userID, _ := claims["sub"].(string)
		var roles []string
		if raw, ok := claims["roles"].([]interface{}); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					roles = append(roles, s)
				}
			}
		}

		ctx := context.WithValue(r.Context(), ContextUserIDKey, userID)
		ctx = context.WithValue(ctx, ContextRolesKey, roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated subject, if any.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextUserIDKey).(string)
	return id
}
