// ABOUTME: Request metrics middleware
// ABOUTME: Records per-route request counts and latency in Prometheus

package middleware

import (
	"net/http"
	"time"

	"github.com/markalston/visionary-gallery/backend/metrics"
)

// Instrument records a request for route once the handler returns. Route is
// the registered pattern, never the raw path, to bound label cardinality.
func Instrument(m *metrics.Metrics, route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if m == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)
			next(wrapped, r)
			m.RecordHTTPRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		}
	}
}
