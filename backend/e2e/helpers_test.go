// ABOUTME: Test helpers for e2e tests
// ABOUTME: Boots the full gateway against a fake image backend

package e2e

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/backend/config"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/server"
)

const testOrigin = "https://gallery.example.com"

var testUser = models.Identity{Email: "grace@example.com", Name: "Grace Hopper"}

// backendCall is one request seen by the fake image backend.
type backendCall struct {
	Method string
	Path   string
	UserID string
}

// fakeBackend records calls and answers with the configured handler.
type fakeBackend struct {
	*httptest.Server
	mu    sync.Mutex
	calls []backendCall
}

func (b *fakeBackend) Calls() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendCall(nil), b.calls...)
}

func newFakeBackend(t *testing.T, fn http.HandlerFunc) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, backendCall{Method: r.Method, Path: r.URL.Path, UserID: r.Header.Get("user-id")})
		b.mu.Unlock()
		fn(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

// okBackend answers every call with an empty JSON list or object.
func okBackend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte(`[]`))
		return
	}
	_, _ = w.Write([]byte(`{"message":"ok"}`))
}

// stubAuthenticator signs every callback in as testUser.
type stubAuthenticator struct{}

func (stubAuthenticator) BeginAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth/google/callback", http.StatusFound)
}

func (stubAuthenticator) CompleteAuth(http.ResponseWriter, *http.Request) (models.Identity, error) {
	return testUser, nil
}

func (stubAuthenticator) Logout(http.ResponseWriter, *http.Request) error { return nil }

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		PublicURL:          "http://gateway.test",
		CORSAllowedOrigins: []string{testOrigin},
		CookieSecure:       false,
		BackendURL:         backendURL,
		UpstreamTimeout:    2 * time.Second,
		SessionSecret:      "e2e-session-secret-at-least-32-characters",
		SessionMaxAge:      3600,
		TokenSecret:        "e2e-token-secret-at-least-32-characters!",
		TokenTTL:           time.Hour,
		RateLimitEnabled:   true,
		RateLimitAuth:      100,
		RateLimitWrite:     100,
		RateLimitDefault:   100,
		MetricsEnabled:     true,
	}
}

// gateway is a running gateway plus the fake backend behind it.
type gateway struct {
	*httptest.Server
	srv     *server.Server
	backend *fakeBackend
}

func newGateway(t *testing.T, backend http.HandlerFunc, mutate func(*config.Config)) *gateway {
	t.Helper()
	fb := newFakeBackend(t, backend)
	cfg := testConfig(fb.URL)
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := server.New(cfg)
	require.NoError(t, err)
	srv.SetAuthenticator(stubAuthenticator{})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &gateway{Server: ts, srv: srv, backend: fb}
}

// signIn completes the stub OAuth flow and returns a client holding the
// session cookies plus the CSRF token.
func (g *gateway) signIn(t *testing.T) (*http.Client, string) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(g.URL + "/auth/google/callback")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var csrf string
	for _, c := range resp.Cookies() {
		if c.Name == "visionary_csrf" {
			csrf = c.Value
		}
	}
	require.NotEmpty(t, csrf, "sign-in must set the CSRF cookie")
	return client, csrf
}

// withTestEnv sets environment variables, returning a cleanup function
// that restores all original values.
func withTestEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	originals := make(map[string]*string, len(vars))
	for key := range vars {
		if v, ok := os.LookupEnv(key); ok {
			originals[key] = &v
		} else {
			originals[key] = nil
		}
	}

	for key, value := range vars {
		os.Setenv(key, value)
	}

	return func() {
		for key, value := range originals {
			if value == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *value)
			}
		}
	}
}
