// ABOUTME: HTTP handlers for the gallery gateway API
// ABOUTME: Holds shared dependencies and JSON response helpers

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/markalston/visionary-gallery/backend/config"
	"github.com/markalston/visionary-gallery/backend/metrics"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

// maxRequestBody bounds JSON request bodies accepted from browsers.
const maxRequestBody = 1 << 20

var errEmptyBody = errors.New("empty request body")

type Handler struct {
	cfg      *config.Config
	upstream *services.UpstreamClient
	sessions *services.SessionService
	tokens   *services.TokenManager
	auth     services.Authenticator
	metrics  *metrics.Metrics
}

// NewHandler creates a handler. Sessions, tokens, the authenticator, and
// metrics are optional and attached with the Set methods.
func NewHandler(cfg *config.Config, upstream *services.UpstreamClient) *Handler {
	return &Handler{
		cfg:      cfg,
		upstream: upstream,
		auth:     services.DisabledAuthenticator{},
	}
}

func (h *Handler) SetSessionService(s *services.SessionService) {
	h.sessions = s
}

func (h *Handler) SetTokenManager(m *services.TokenManager) {
	h.tokens = m
}

func (h *Handler) SetAuthenticator(a services.Authenticator) {
	if a == nil {
		a = services.DisabledAuthenticator{}
	}
	h.auth = a
}

func (h *Handler) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeRaw relays an upstream JSON body unchanged.
func (h *Handler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	writeError(w, message, code)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	return dec.Decode(v)
}
