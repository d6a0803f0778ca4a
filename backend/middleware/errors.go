// ABOUTME: JSON error response helper for middleware
// ABOUTME: Writes the same error body the handlers use

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/markalston/visionary-gallery/backend/models"
)

// writeJSONError writes a models.ErrorResponse with the given status code.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, Code: code}); err != nil {
		slog.Debug("Failed to write error response", "error", err)
	}
}
