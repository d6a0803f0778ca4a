// ABOUTME: Sign-in handlers for the OAuth session flow and CLI API tokens
// ABOUTME: Creates and clears session cookies, renders sign-in and error pages

package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markalston/visionary-gallery/backend/middleware"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

// Sign-in error codes carried in /auth/error?error=...
const (
	errCodeConfiguration = "Configuration"
	errCodeCallback      = "OAuthCallback"
)

var authErrorMessages = map[string]string{
	"Configuration":         "There is a problem with the server configuration.",
	"AccessDenied":          "You do not have permission to sign in.",
	"Verification":          "The verification link was invalid or has expired.",
	"OAuthSignin":           "Error in the OAuth sign-in process.",
	"OAuthCallback":         "Error in the OAuth callback process.",
	"OAuthCreateAccount":    "Could not create OAuth provider user in the database.",
	"EmailCreateAccount":    "Could not create email provider user in the database.",
	"Callback":              "Error in the OAuth callback handler.",
	"OAuthAccountNotLinked": "The email is already associated with another account.",
	"SessionRequired":       "Authentication required to access this page.",
}

const unknownAuthError = "An unknown error occurred during authentication."

// authErrorMessage maps a sign-in error code to the text shown to users.
func authErrorMessage(code string) string {
	if msg, ok := authErrorMessages[code]; ok {
		return msg
	}
	return unknownAuthError
}

// BeginSignIn redirects to the identity provider's consent page.
func (h *Handler) BeginSignIn(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAuthEvent("begin")
	h.auth.BeginAuth(w, r)
}

// CompleteSignIn handles the provider callback, creating the session cookie
// and its paired CSRF cookie.
func (h *Handler) CompleteSignIn(w http.ResponseWriter, r *http.Request) {
	identity, err := h.auth.CompleteAuth(w, r)
	if err != nil {
		code := errCodeCallback
		if errors.Is(err, services.ErrProviderNotConfigured) {
			code = errCodeConfiguration
		}
		slog.Warn("Sign-in failed", "error", err)
		h.metrics.RecordAuthEvent("failure")
		http.Redirect(w, r, "/auth/error?error="+code, http.StatusFound)
		return
	}

	if h.sessions == nil {
		slog.Error("Sign-in completed without a session service")
		http.Redirect(w, r, "/auth/error?error="+errCodeConfiguration, http.StatusFound)
		return
	}

	session, err := h.sessions.Create(w, r, identity)
	if err != nil {
		slog.Error("Failed to create session", "user", identity.Email, "error", err)
		h.metrics.RecordAuthEvent("failure")
		http.Redirect(w, r, "/auth/error?error="+errCodeCallback, http.StatusFound)
		return
	}
	h.setCSRFCookie(w, session.CSRFToken)

	slog.Info("User signed in", "user", identity.Email)
	h.metrics.RecordAuthEvent("signin")

	target := "/auth/signin"
	if h.cfg != nil && h.cfg.FrontendURL != "" {
		target = h.cfg.FrontendURL + "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Me returns the current user's authentication state. For cookie sessions
// it re-sends the CSRF cookie so a page can recover it.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		h.writeJSON(w, http.StatusOK, models.UserInfoResponse{Authenticated: false})
		return
	}

	if h.sessions != nil && middleware.GetBearerToken(r) == "" {
		if session, err := h.sessions.Get(r); err == nil && session.CSRFToken != "" {
			h.setCSRFCookie(w, session.CSRFToken)
		}
	}

	h.writeJSON(w, http.StatusOK, models.UserInfoResponse{
		Authenticated: true,
		Email:         identity.Email,
		Name:          identity.Name,
		Image:         identity.Avatar,
	})
}

// Logout clears the session cookie and revokes the bearer token presented,
// if any. Signing out while anonymous still succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Delete(w, r); err != nil {
			slog.Warn("Failed to clear session", "error", err)
		}
	}
	if err := h.auth.Logout(w, r); err != nil {
		slog.Debug("Provider logout failed", "error", err)
	}
	if token := middleware.GetBearerToken(r); token != "" && h.tokens != nil {
		if err := h.tokens.Revoke(token); err != nil {
			slog.Warn("Failed to revoke token", "error", err)
		}
	}
	h.clearCSRFCookie(w)

	if identity := middleware.GetIdentity(r); identity != nil {
		slog.Info("User signed out", "user", identity.Email)
	}
	h.metrics.RecordAuthEvent("signout")

	h.writeJSON(w, http.StatusOK, models.LogoutResponse{Success: true})
}

// IssueToken mints an API token for the signed-in user, for use by the CLI.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	if h.tokens == nil {
		h.writeError(w, "API tokens are not enabled", http.StatusServiceUnavailable)
		return
	}

	token, expires, err := h.tokens.Issue(*identity)
	if err != nil {
		slog.Error("Failed to issue token", "user", identity.Email, "error", err)
		h.writeError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAuthEvent("token")
	h.writeJSON(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: expires,
		Email:     identity.Email,
	})
}

type signInView struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Image         string `json:"image,omitempty"`
	SignInURL     string `json:"signin_url"`
	Configured    bool   `json:"configured"`
}

// SignInPage renders the sign-in page, or its JSON form for API clients.
func (h *Handler) SignInPage(w http.ResponseWriter, r *http.Request) {
	view := signInView{
		SignInURL:  "/auth/google",
		Configured: h.cfg != nil && h.cfg.OAuthConfigured(),
	}
	if identity := middleware.GetIdentity(r); identity != nil {
		view.Authenticated = true
		view.Email = identity.Email
		view.Name = identity.DisplayName()
		view.Image = identity.Avatar
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, view)
		return
	}
	renderPage(w, http.StatusOK, signInTemplate, view)
}

type errorView struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// ErrorPage renders a sign-in failure for the ?error= code.
func (h *Handler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("error"))
	view := errorView{Code: code, Message: authErrorMessage(code)}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, view)
		return
	}
	renderPage(w, http.StatusOK, errorTemplate, view)
}

func (h *Handler) setCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    token,
		HttpOnly: false, // page scripts echo it in X-CSRF-Token
		Secure:   h.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

func (h *Handler) clearCSRFCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    "",
		Secure:   h.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (h *Handler) cookieSecure() bool {
	if h.cfg == nil {
		return true
	}
	return h.cfg.CookieSecure
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderPage(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render page", "template", tmpl.Name(), "error", err)
	}
}

var signInTemplate = template.Must(template.New("signin").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in - Visionary AI</title></head>
<body>
<main>
  <h1>Visionary AI</h1>
  {{if .Authenticated}}
    <p>Signed in as <strong>{{.Name}}</strong> ({{.Email}})</p>
    <button id="token">Create CLI token</button>
    <pre id="token-out"></pre>
    <form method="post" action="/auth/logout" id="logout"><button>Sign out</button></form>
    <script>
      function csrf() {
        const m = document.cookie.match(/(?:^|; )visionary_csrf=([^;]*)/);
        return m ? decodeURIComponent(m[1]) : "";
      }
      document.getElementById("token").onclick = async () => {
        const res = await fetch("/auth/token", {method: "POST", headers: {"X-CSRF-Token": csrf()}});
        const body = await res.json();
        document.getElementById("token-out").textContent = res.ok
          ? "visionary login --token " + body.token
          : body.error;
      };
      document.getElementById("logout").onsubmit = async (e) => {
        e.preventDefault();
        await fetch("/auth/logout", {method: "POST", headers: {"X-CSRF-Token": csrf()}});
        location.reload();
      };
    </script>
  {{else if .Configured}}
    <p>Sign in to like, comment on, and generate images.</p>
    <a href="{{.SignInURL}}">Sign in with Google</a>
  {{else}}
    <p>Sign-in is not configured on this server.</p>
  {{end}}
</main>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign-in error - Visionary AI</title></head>
<body>
<main>
  <h1>Authentication Error</h1>
  <p>{{.Message}}</p>
  <a href="/auth/signin">Try again</a>
</main>
</body>
</html>
`))
