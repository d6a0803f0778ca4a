// ABOUTME: CSRF protection middleware using double-submit cookie pattern
// ABOUTME: Validates X-CSRF-Token header matches the CSRF cookie for session requests

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markalston/visionary-gallery/backend/services"
)

const (
	// CSRFCookieName is readable by page scripts so they can echo it back.
	CSRFCookieName = "visionary_csrf"
	csrfHeaderName = "X-CSRF-Token"

	// base64url encoding of 32 bytes produces 44 characters (with padding)
	csrfTokenLength = 44
)

// CSRF returns middleware that validates CSRF tokens for state-changing requests.
// Validation is skipped for:
//   - GET, HEAD, OPTIONS requests (safe methods)
//   - Requests with Bearer token in Authorization header (not cookie-authenticated)
//   - Requests without session cookie (not session-authenticated)
func CSRF() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next(w, r)
				return
			}

			if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				next(w, r)
				return
			}

			sessionCookie, err := r.Cookie(services.SessionCookieName)
			if err != nil || sessionCookie.Value == "" {
				next(w, r)
				return
			}

			csrfCookie, err := r.Cookie(CSRFCookieName)
			if err != nil || csrfCookie.Value == "" {
				slog.Debug("CSRF rejected: missing cookie", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			csrfHeader := r.Header.Get(csrfHeaderName)
			if csrfHeader == "" {
				slog.Debug("CSRF rejected: missing header", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			if len(csrfCookie.Value) != csrfTokenLength || len(csrfHeader) != csrfTokenLength {
				slog.Debug("CSRF rejected: invalid token length", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			if subtle.ConstantTimeCompare([]byte(csrfCookie.Value), []byte(csrfHeader)) != 1 {
				slog.Debug("CSRF rejected: token mismatch", "path", sanitizePath(r.URL.Path))
				writeJSONError(w, "CSRF token missing or invalid", http.StatusForbidden)
				return
			}

			next(w, r)
		}
	}
}
