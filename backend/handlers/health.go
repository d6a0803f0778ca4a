// ABOUTME: HTTP handler for gateway health
// ABOUTME: Reports gateway status and image backend reachability

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/visionary-gallery/backend/models"
)

const healthCheckTimeout = 3 * time.Second

// Health returns gateway health including image backend reachability. The
// gateway answers 200 even when the backend is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:   "ok",
		Upstream: "not_configured",
	}

	if h.upstream != nil {
		resp.Backend = h.upstream.BaseURL()

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.upstream.Health(ctx); err != nil {
			slog.Warn("Image backend health check failed", "error", err)
			resp.Upstream = "unreachable"
		} else {
			resp.Upstream = "ok"
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
