// Package middleware provides the HTTP middleware of the gateway: bearer
// credential extraction and verification, request IDs, security headers and
// rate limiting.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ebogdum/filegate/auth"
	"github.com/ebogdum/filegate/metrics"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	RequestIDKey contextKey = "request_id"
)

// Authentication extracts the bearer credential from the Authorization header
// or the ?bearer query parameter (header wins when both are present) and
// verifies it through the trust delegate. Requests without a validated
// principal never reach a handler.
func Authentication(authenticator auth.Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			queryBearer := r.URL.Query().Get("bearer")

			if authHeader == "" && queryBearer == "" {
				writeAuthError(w, logger, "No Bearer token provided")
				return
			}

			channel := "header"
			credential := authHeader
			if credential == "" {
				channel = "query"
				credential = "Bearer " + queryBearer
			}

			principal, err := authenticator.Authenticate(r.Context(), credential)
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues(channel, "failure").Inc()
				logger.Warn("Credential rejected",
					zap.String("channel", channel),
					zap.String("path", r.URL.Path))
				writeAuthError(w, logger, "Invalid Bearer token provided by "+channel)
				return
			}

			metrics.AuthAttemptsTotal.WithLabelValues(channel, "success").Inc()

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID adds a unique request ID to each request context and response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from request context.
func GetPrincipal(ctx context.Context) (*auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*auth.Principal)
	return principal, ok
}

// WithPrincipal returns a context carrying the given principal. Intended for
// handler tests that bypass the Authentication middleware.
func WithPrincipal(ctx context.Context, principal *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// writeAuthError writes the response envelope for a failed authentication.
// The handlers package depends on this one, so the envelope is assembled
// locally here.
func writeAuthError(w http.ResponseWriter, logger *zap.Logger, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	envelope := map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"data":    nil,
	}
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logger.Error("Failed to write auth error response", zap.Error(err))
	}
}
