package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/backend/cache"
	"github.com/markalston/visionary-gallery/backend/middleware"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

// stubAuthenticator completes every handshake with a fixed result.
type stubAuthenticator struct {
	identity   models.Identity
	err        error
	logoutHits int
}

func (s *stubAuthenticator) BeginAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://accounts.google.test/o/oauth2/auth", http.StatusTemporaryRedirect)
}

func (s *stubAuthenticator) CompleteAuth(http.ResponseWriter, *http.Request) (models.Identity, error) {
	return s.identity, s.err
}

func (s *stubAuthenticator) Logout(http.ResponseWriter, *http.Request) error {
	s.logoutHits++
	return nil
}

func newAuthHandler(t *testing.T, auth services.Authenticator) (*Handler, *services.SessionService, *services.TokenManager) {
	t.Helper()
	h := newTestHandler(t, downBackendURL(t))

	sessions, err := services.NewSessionService("test-session-secret-at-least-32-chars", false, 3600)
	require.NoError(t, err)
	tokens := services.NewTokenManager("test-token-secret-at-least-32-chars!!", time.Hour, cache.New(time.Hour))

	h.SetSessionService(sessions)
	h.SetTokenManager(tokens)
	h.SetAuthenticator(auth)
	return h, sessions, tokens
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestBeginSignIn_RedirectsToProvider(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{})

	w := httptest.NewRecorder()
	h.BeginSignIn(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "accounts.google.test")
}

func TestBeginSignIn_Unconfigured(t *testing.T) {
	h := newTestHandler(t, downBackendURL(t))

	w := httptest.NewRecorder()
	h.BeginSignIn(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/error?error=Configuration", w.Header().Get("Location"))
}

func TestCompleteSignIn_CreatesSessionAndCSRFCookie(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{identity: testUser})

	w := httptest.NewRecorder()
	h.CompleteSignIn(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=x&code=y", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/signin", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	session := findCookie(cookies, services.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	csrf := findCookie(cookies, middleware.CSRFCookieName)
	require.NotNil(t, csrf)
	assert.False(t, csrf.HttpOnly, "page scripts must be able to read the CSRF cookie")
	assert.Len(t, csrf.Value, 44)
}

func TestCompleteSignIn_RedirectsToFrontend(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{identity: testUser})
	h.cfg.FrontendURL = "https://gallery.test"

	w := httptest.NewRecorder()
	h.CompleteSignIn(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

	assert.Equal(t, "https://gallery.test/", w.Header().Get("Location"))
}

func TestCompleteSignIn_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"provider error", errors.New("state mismatch"), "/auth/error?error=OAuthCallback"},
		{"missing email", services.ErrMissingEmail, "/auth/error?error=OAuthCallback"},
		{"not configured", services.ErrProviderNotConfigured, "/auth/error?error=Configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newAuthHandler(t, &stubAuthenticator{err: tt.err})

			w := httptest.NewRecorder()
			h.CompleteSignIn(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
			assert.Nil(t, findCookie(w.Result().Cookies(), services.SessionCookieName))
		})
	}
}

func TestMe_RoundTripsSessionCookie(t *testing.T) {
	h, sessions, _ := newAuthHandler(t, &stubAuthenticator{identity: testUser})

	signIn := httptest.NewRecorder()
	h.CompleteSignIn(signIn, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	middleware.Auth(middleware.AuthConfig{Sessions: sessions})(h.Me)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.UserInfoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, testUser.Email, resp.Email)
	assert.Equal(t, testUser.Name, resp.Name)
	assert.Equal(t, testUser.Avatar, resp.Image)

	assert.NotNil(t, findCookie(w.Result().Cookies(), middleware.CSRFCookieName))
}

func TestMe_Anonymous(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{})

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestLogout_ClearsCookiesAndRevokesToken(t *testing.T) {
	auth := &stubAuthenticator{}
	h, _, tokens := newAuthHandler(t, auth)

	token, _, err := tokens.Issue(testUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	middleware.Auth(middleware.AuthConfig{Tokens: tokens})(h.Logout)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 1, auth.logoutHits)

	session := findCookie(w.Result().Cookies(), services.SessionCookieName)
	require.NotNil(t, session)
	assert.Negative(t, session.MaxAge)
	csrf := findCookie(w.Result().Cookies(), middleware.CSRFCookieName)
	require.NotNil(t, csrf)
	assert.Negative(t, csrf.MaxAge)

	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestLogout_Anonymous(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{})

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueToken(t *testing.T) {
	h, _, tokens := newAuthHandler(t, &stubAuthenticator{})

	w := httptest.NewRecorder()
	h.IssueToken(w, asUser(httptest.NewRequest(http.MethodPost, "/auth/token", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, testUser.Email, resp.Email)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	identity, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, testUser, identity)
}

func TestIssueToken_RequiresIdentity(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{})

	w := httptest.NewRecorder()
	h.IssueToken(w, httptest.NewRequest(http.MethodPost, "/auth/token", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignInPage(t *testing.T) {
	h, _, _ := newAuthHandler(t, &stubAuthenticator{})
	h.cfg.GoogleClientID = "id"
	h.cfg.GoogleClientSecret = "secret"

	t.Run("anonymous html", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SignInPage(w, httptest.NewRequest(http.MethodGet, "/auth/signin", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), `href="/auth/google"`)
	})

	t.Run("signed in json", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/auth/signin", nil))
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		h.SignInPage(w, req)

		var view signInView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		assert.True(t, view.Authenticated)
		assert.Equal(t, testUser.Email, view.Email)
		assert.True(t, view.Configured)
	})

	t.Run("escapes names", func(t *testing.T) {
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/auth/signin", nil),
			models.Identity{Email: "x@example.com", Name: "<script>alert(1)</script>"})
		w := httptest.NewRecorder()
		h.SignInPage(w, req)

		assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
		assert.Contains(t, w.Body.String(), "Create CLI token")
	})
}

func TestErrorPage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"Configuration", "There is a problem with the server configuration."},
		{"AccessDenied", "You do not have permission to sign in."},
		{"OAuthAccountNotLinked", "The email is already associated with another account."},
		{"SessionRequired", "Authentication required to access this page."},
		{"", "An unknown error occurred during authentication."},
		{"SomethingElse", "An unknown error occurred during authentication."},
	}
	h := newTestHandler(t, downBackendURL(t))

	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/error?error="+tt.code, nil)
			req.Header.Set("Accept", "application/json")
			w := httptest.NewRecorder()
			h.ErrorPage(w, req)

			var view errorView
			require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
			assert.Equal(t, tt.want, view.Message)
		})
	}

	w := httptest.NewRecorder()
	h.ErrorPage(w, httptest.NewRequest(http.MethodGet, "/auth/error?error=AccessDenied", nil))
	assert.Contains(t, w.Body.String(), "You do not have permission to sign in.")
}
