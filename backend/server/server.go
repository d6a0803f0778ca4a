// ABOUTME: Assembles the gateway: services, route table, and middleware chain
// ABOUTME: Serves HTTP with graceful shutdown on context cancellation

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/visionary-gallery/backend/cache"
	"github.com/markalston/visionary-gallery/backend/config"
	"github.com/markalston/visionary-gallery/backend/handlers"
	"github.com/markalston/visionary-gallery/backend/metrics"
	"github.com/markalston/visionary-gallery/backend/middleware"
	"github.com/markalston/visionary-gallery/backend/services"
)

const (
	rateLimitWindow = time.Minute
	shutdownTimeout = 15 * time.Second
)

// Server is the assembled gateway.
type Server struct {
	cfg      *config.Config
	handler  *handlers.Handler
	metrics  *metrics.Metrics
	sessions *services.SessionService
	tokens   *services.TokenManager

	authLimiter    *middleware.RateLimiter
	writeLimiter   *middleware.RateLimiter
	defaultLimiter *middleware.RateLimiter

	mux *http.ServeMux
}

// New builds the gateway from cfg. The identity provider is wired only when
// OAuth credentials are configured; otherwise sign-in reports a
// configuration error.
func New(cfg *config.Config) (*Server, error) {
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		var err error
		m, err = metrics.New(nil)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	sessions, err := services.NewSessionService(cfg.SessionSecret, cfg.CookieSecure, cfg.SessionMaxAge)
	if err != nil {
		return nil, fmt.Errorf("creating session service: %w", err)
	}

	revoked := cache.New(cfg.TokenTTL)
	tokens := services.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL, revoked)

	upstream := services.NewUpstreamClient(cfg.BackendURL, cfg.UpstreamTimeout, m)

	h := handlers.NewHandler(cfg, upstream)
	h.SetSessionService(sessions)
	h.SetTokenManager(tokens)
	h.SetMetrics(m)
	if cfg.OAuthConfigured() {
		h.SetAuthenticator(services.NewGothAuthenticator(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CallbackURL(), sessions.Store()))
	} else {
		slog.Warn("Identity provider not configured, sign-in disabled")
	}

	s := &Server{
		cfg:      cfg,
		handler:  h,
		metrics:  m,
		sessions: sessions,
		tokens:   tokens,
	}

	if cfg.RateLimitEnabled {
		s.authLimiter = middleware.NewRateLimiter(cfg.RateLimitAuth, rateLimitWindow)
		s.writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, rateLimitWindow)
		s.defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, rateLimitWindow)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	s.mux = s.routes()
	return s, nil
}

// SetAuthenticator replaces the identity provider handshake.
func (s *Server) SetAuthenticator(a services.Authenticator) {
	s.handler.SetAuthenticator(a)
}

// Tokens returns the API token manager.
func (s *Server) Tokens() *services.TokenManager {
	return s.tokens
}

// Metrics returns the metrics registry wrapper, nil when disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// routes registers every route with its middleware chain:
// logging, metrics, security headers, CORS, no-store, identity, rate limit,
// the identity requirement on protected routes, then CSRF.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.Auth(middleware.AuthConfig{Tokens: s.tokens, Sessions: s.sessions})

	for _, route := range s.handler.Routes() {
		mws := []middleware.Middleware{
			middleware.LogRequest,
			middleware.Instrument(s.metrics, route.Pattern()),
			middleware.SecurityHeaders,
			middleware.CORS(s.cfg.CORSAllowedOrigins),
			middleware.NoStore,
			auth,
			s.rateLimit(route),
		}
		// Anonymous callers get 401 before any CSRF check can answer 403.
		if route.Protected {
			mws = append(mws, middleware.RequireAuth)
		}
		mws = append(mws, middleware.CSRF())
		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler, mws...))
	}

	// Preflight for any path; CORS answers before the handler runs.
	mux.HandleFunc("OPTIONS /", middleware.Chain(http.NotFound,
		middleware.LogRequest,
		middleware.CORS(s.cfg.CORSAllowedOrigins),
	))

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// rateLimit picks the limiter class for a route. Sign-in routes key by
// client IP; everything else keys by user when known.
func (s *Server) rateLimit(route handlers.Route) middleware.Middleware {
	switch {
	case route.IsAuth():
		return middleware.RateLimit(s.authLimiter, middleware.ClientIP)
	case route.IsWrite():
		return middleware.RateLimit(s.writeLimiter, middleware.UserOrIP)
	default:
		return middleware.RateLimit(s.defaultLimiter, middleware.UserOrIP)
	}
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation requests wait on the backend for the full upstream timeout.
		WriteTimeout: s.cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
