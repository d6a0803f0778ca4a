// ABOUTME: Configuration loader for the gallery gateway
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBackendURL is used outside production when no backend URL is set.
const DefaultBackendURL = "http://localhost:8000"

var ErrBackendURLRequired = errors.New("BACKEND_URL or NEXT_PUBLIC_API_URL is required in production")

type Config struct {
	// Server
	Port               string
	Environment        string   // APP_ENV, falls back to NODE_ENV (default: development)
	PublicURL          string   // this gateway's own origin, used for OAuth callbacks and share links
	FrontendURL        string   // where the browser lands after sign-in (default: the sign-in page)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Set Secure flag on session cookies (default: true)

	// Image backend
	BackendURL      string
	UpstreamTimeout time.Duration

	// Sessions and tokens
	SessionSecret string
	SessionMaxAge int // seconds
	TokenSecret   string
	TokenTTL      time.Duration

	// Identity provider
	GoogleClientID     string
	GoogleClientSecret string

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for auth endpoints (default: 10)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 30)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 300)

	MetricsEnabled bool
}

// IsProduction reports whether the gateway runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// OAuthConfigured returns true if identity provider credentials are set
func (c *Config) OAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// CallbackURL is the OAuth redirect target registered with the provider.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/auth/google/callback"
}

func Load() (*Config, error) {
	env := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))
	port := getEnv("PORT", "8080")

	cfg := &Config{
		Port:               port,
		Environment:        env,
		PublicURL:          strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		FrontendURL:        strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 60*time.Second),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 7*24*60*60),
		TokenSecret:   os.Getenv("TOKEN_SECRET"),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 30*24*time.Hour),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 30),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 300),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	if cfg.FrontendURL != "" && len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendURL}
	}

	backendURL, err := resolveBackendURL(cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	cfg.BackendURL = backendURL

	if cfg.IsProduction() {
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required in production")
		}
		if cfg.TokenSecret == "" {
			return nil, fmt.Errorf("TOKEN_SECRET is required in production")
		}
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = cfg.SessionSecret
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", cfg.UpstreamTimeout)
	}

	return cfg, nil
}

// resolveBackendURL picks the image backend base URL: the server-side
// override first, then the public URL, then the localhost default when not
// in production.
func resolveBackendURL(production bool) (string, error) {
	for _, key := range []string{"BACKEND_URL", "NEXT_PUBLIC_API_URL", "PUBLIC_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return strings.TrimRight(ensureScheme(v), "/"), nil
		}
	}
	if production {
		return "", ErrBackendURLRequired
	}
	return DefaultBackendURL, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s") or bare seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
