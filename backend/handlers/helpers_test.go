package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/backend/config"
	"github.com/markalston/visionary-gallery/backend/metrics"
	"github.com/markalston/visionary-gallery/backend/middleware"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

var testUser = models.Identity{Email: "ada@example.com", Name: "Ada Lovelace", Avatar: "https://img.test/ada.png"}

// fakeBackend is an httptest image backend that counts the calls it gets.
type fakeBackend struct {
	*httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[http.Request]
}

func newFakeBackend(t *testing.T, fn http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		fb.last.Store(r.Clone(r.Context()))
		fn(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func newTestHandler(t *testing.T, backendURL string) *Handler {
	t.Helper()
	m, err := metrics.New(nil)
	require.NoError(t, err)

	cfg := &config.Config{
		PublicURL:    "http://gateway.test",
		BackendURL:   backendURL,
		CookieSecure: false,
	}
	h := NewHandler(cfg, services.NewUpstreamClient(backendURL, 2*time.Second, m))
	h.SetMetrics(m)
	return h
}

// downBackendURL points at a listener that was closed before use.
func downBackendURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func asUser(r *http.Request) *http.Request {
	return withIdentity(r, testUser)
}

// staticSession is a session cookie that always reads as one identity.
type staticSession models.Identity

func (s staticSession) Get(*http.Request) (*models.Session, error) {
	return &models.Session{Identity: models.Identity(s)}, nil
}

// withIdentity runs r through the auth middleware with a session for
// identity and returns the request the handler would see.
func withIdentity(r *http.Request, identity models.Identity) *http.Request {
	var resolved *http.Request
	auth := middleware.Auth(middleware.AuthConfig{Sessions: staticSession(identity)})
	auth(func(_ http.ResponseWriter, req *http.Request) { resolved = req })(httptest.NewRecorder(), r)
	return resolved
}

func jsonResponder(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
