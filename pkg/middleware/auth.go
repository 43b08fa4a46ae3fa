package middleware

import (
	"net/http"
	"strings"

	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// OptionalBearer stores the bearer token in the context when one is sent.
// Requests without a token pass through; handlers decide whether they need one.
func OptionalBearer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				logger.Debug("Ignoring malformed authorization header", zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetTokenContext(r.Context(), token)))
		})
	}
}

// RequireToken rejects requests that reach it without a bearer token.
// The token itself is verified by the backend.
func RequireToken(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetTokenFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn("Missing bearer token", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetTokenContext(r.Context(), token)))
		})
	}
}
