// ABOUTME: Authentication middleware resolving the caller's identity
// ABOUTME: Checks bearer API tokens first, then the session cookie

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markalston/visionary-gallery/backend/models"
)

// TokenValidator validates bearer API tokens.
type TokenValidator interface {
	Validate(token string) (models.Identity, error)
}

// SessionReader reads the session cookie from a request.
type SessionReader interface {
	Get(r *http.Request) (*models.Session, error)
}

// AuthConfig holds authentication middleware settings
type AuthConfig struct {
	Tokens   TokenValidator // Optional: validates Bearer tokens
	Sessions SessionReader  // Optional: validates session cookies
}

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const (
	identityKey    contextKey = "identity"
	bearerTokenKey contextKey = "bearerToken"
)

// Auth returns middleware that resolves the caller's identity, if any, into
// the request context. Anonymous requests pass through; RequireAuth gates
// the routes that need an identity.
//
// Authentication methods (checked in order):
//  1. Bearer token in Authorization header (takes precedence)
//  2. Session cookie
//
// A presented bearer token that fails validation is rejected with 401. An
// unreadable session cookie is treated as anonymous.
func Auth(cfg AuthConfig) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			path := sanitizePath(r.URL.Path)

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				if !strings.HasPrefix(authHeader, "Bearer ") {
					slog.Debug("Auth rejected: invalid format", "path", path)
					writeJSONError(w, "Invalid authorization format", http.StatusUnauthorized)
					return
				}

				if cfg.Tokens == nil {
					slog.Debug("Auth rejected: token validation not configured", "path", path)
					writeJSONError(w, "Bearer authentication unavailable", http.StatusUnauthorized)
					return
				}

				token := strings.TrimPrefix(authHeader, "Bearer ")
				identity, err := cfg.Tokens.Validate(token)
				if err != nil {
					slog.Debug("Auth rejected: invalid token", "path", path, "error", err)
					writeJSONError(w, "Invalid token", http.StatusUnauthorized)
					return
				}

				slog.Debug("Auth: valid bearer token", "path", path, "user", identity.Email)
				ctx := context.WithValue(r.Context(), identityKey, &identity)
				ctx = context.WithValue(ctx, bearerTokenKey, token)
				next(w, r.WithContext(ctx))
				return
			}

			if cfg.Sessions != nil {
				session, err := cfg.Sessions.Get(r)
				if err == nil {
					slog.Debug("Auth: valid session cookie", "path", path, "user", session.Email)
					identity := session.Identity
					ctx := context.WithValue(r.Context(), identityKey, &identity)
					next(w, r.WithContext(ctx))
					return
				}
			}

			next(w, r)
		}
	}
}

// RequireAuth rejects requests without a resolved identity. It must run
// inside Auth.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r) == nil {
			slog.Debug("Auth rejected: no identity", "path", sanitizePath(r.URL.Path))
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// GetIdentity extracts the resolved identity from request context.
// Returns nil for anonymous requests.
func GetIdentity(r *http.Request) *models.Identity {
	identity, ok := r.Context().Value(identityKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// GetBearerToken returns the validated bearer token, if the identity came
// from one.
func GetBearerToken(r *http.Request) string {
	token, _ := r.Context().Value(bearerTokenKey).(string)
	return token
}
