// ABOUTME: Declarative route table for gateway endpoints
// ABOUTME: Defines all routes with their HTTP methods, handlers, and auth needs

package handlers

import (
	"net/http"
	"strings"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method    string           // HTTP method (GET, POST, etc.)
	Path      string           // URL path pattern (e.g., "/images/{id}")
	Handler   http.HandlerFunc // Handler function
	Protected bool             // Requires a signed-in identity
}

// Pattern returns the ServeMux pattern for the route.
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// IsAuth reports whether the route belongs to the sign-in flow.
func (r Route) IsAuth() bool {
	return strings.HasPrefix(r.Path, "/auth/")
}

// IsWrite reports whether the route changes state.
func (r Route) IsWrite() bool {
	return r.Method != http.MethodGet && r.Method != http.MethodHead
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/health", Handler: h.Health},

		// Session
		{Method: http.MethodGet, Path: "/auth/google", Handler: h.BeginSignIn},
		{Method: http.MethodGet, Path: "/auth/google/callback", Handler: h.CompleteSignIn},
		{Method: http.MethodGet, Path: "/auth/signin", Handler: h.SignInPage},
		{Method: http.MethodGet, Path: "/auth/error", Handler: h.ErrorPage},
		{Method: http.MethodGet, Path: "/auth/me", Handler: h.Me},
		{Method: http.MethodPost, Path: "/auth/logout", Handler: h.Logout},
		{Method: http.MethodPost, Path: "/auth/token", Handler: h.IssueToken, Protected: true},

		// Image reads
		{Method: http.MethodGet, Path: "/images/explore", Handler: h.Explore},
		{Method: http.MethodGet, Path: "/images/user", Handler: h.UserImages, Protected: true},
		{Method: http.MethodGet, Path: "/images/liked", Handler: h.LikedImages, Protected: true},
		{Method: http.MethodGet, Path: "/images/{id}", Handler: h.GetImage},
		{Method: http.MethodGet, Path: "/images/{id}/comments", Handler: h.GetComments},

		// Image writes
		{Method: http.MethodPost, Path: "/images/{id}/comments", Handler: h.CreateComment, Protected: true},
		{Method: http.MethodPost, Path: "/images/like", Handler: h.Like, Protected: true},
		{Method: http.MethodPost, Path: "/images/unlike", Handler: h.Unlike, Protected: true},
		{Method: http.MethodPost, Path: "/images/generate", Handler: h.Generate, Protected: true},
		{Method: http.MethodPost, Path: "/images/upload", Handler: h.Upload, Protected: true},
		{Method: http.MethodPost, Path: "/images/save", Handler: h.Save, Protected: true},
		{Method: http.MethodDelete, Path: "/images/{id}", Handler: h.DeleteImage, Protected: true},
	}
}
