// ABOUTME: End-to-end tests for identity resolution and API tokens
// ABOUTME: Covers anonymous access, bearer tokens, and identity forwarding

package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/backend/models"
)

func TestAuth_AnonymousExploreAllowed(t *testing.T) {
	g := newGateway(t, okBackend, nil)

	resp, err := http.Get(g.URL + "/images/explore?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	calls := g.backend.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].UserID)
}

func TestAuth_AnonymousWritesRejectedBeforeBackend(t *testing.T) {
	g := newGateway(t, okBackend, nil)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/images/like", `{"imageId":"img-1"}`},
		{http.MethodPost, "/images/unlike", `{"imageId":"img-1"}`},
		{http.MethodPost, "/images/img-1/comments", `{"text":"hi"}`},
		{http.MethodPost, "/images/generate", `{"prompt":"p"}`},
		{http.MethodPost, "/images/upload", `{"image_url":"https://x/y.png"}`},
		{http.MethodPost, "/images/save", `{"image_url":"https://x/y.png","prompt":"p"}`},
		{http.MethodDelete, "/images/img-1", ``},
		{http.MethodGet, "/images/user", ``},
		{http.MethodGet, "/images/liked", ``},
		{http.MethodPost, "/auth/token", ``},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req, err := http.NewRequest(p.method, g.URL+p.path, strings.NewReader(p.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
	assert.Empty(t, g.backend.Calls())
}

func TestAuth_BearerTokenFlow(t *testing.T) {
	g := newGateway(t, okBackend, nil)
	client, csrf := g.signIn(t)

	// Mint a CLI token from the browser session.
	resp := postJSON(t, client, g.URL+"/auth/token", ``, csrf)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok models.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	require.NotEmpty(t, tok.Token)

	// Bearer requests need no cookies and no CSRF header.
	req, err := http.NewRequest(http.MethodPost, g.URL+"/images/like", strings.NewReader(`{"imageId":"img-9"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	req.Header.Set("user-id", "mallory@example.com")
	likeResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer likeResp.Body.Close()
	require.Equal(t, http.StatusOK, likeResp.StatusCode)

	calls := g.backend.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, testUser.Email, calls[len(calls)-1].UserID)

	// Signing out with the token revokes it.
	logout, err := http.NewRequest(http.MethodPost, g.URL+"/auth/logout", nil)
	require.NoError(t, err)
	logout.Header.Set("Authorization", "Bearer "+tok.Token)
	logoutResp, err := http.DefaultClient.Do(logout)
	require.NoError(t, err)
	logoutResp.Body.Close()
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	me, err := http.NewRequest(http.MethodGet, g.URL+"/auth/me", nil)
	require.NoError(t, err)
	me.Header.Set("Authorization", "Bearer "+tok.Token)
	meResp, err := http.DefaultClient.Do(me)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
}

func TestAuth_InvalidBearerRejected(t *testing.T) {
	g := newGateway(t, okBackend, nil)

	req, err := http.NewRequest(http.MethodGet, g.URL+"/images/explore", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, g.backend.Calls())
}

func TestAuth_GarbledSessionCookieIsAnonymous(t *testing.T) {
	g := newGateway(t, okBackend, nil)

	req, err := http.NewRequest(http.MethodGet, g.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "visionary_session", Value: "garbage"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info models.UserInfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.False(t, info.Authenticated)
}

func TestAuth_SessionMe(t *testing.T) {
	g := newGateway(t, okBackend, nil)
	client, _ := g.signIn(t)

	resp, err := client.Get(g.URL + "/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info models.UserInfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.True(t, info.Authenticated)
	assert.Equal(t, testUser.Email, info.Email)
}

func TestAuth_UnconfiguredProviderRedirectsToError(t *testing.T) {
	g := newGateway(t, okBackend, nil)
	g.srv.SetAuthenticator(nil)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(g.URL + "/auth/google")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/error?error=Configuration", resp.Header.Get("Location"))
}
