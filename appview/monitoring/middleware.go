package monitoring

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Middleware records request counts, durations and in-flight
// connections per route pattern. Patterns rather than raw paths keep
// the label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			// skip collecting metrics from the metrics endpoint itself
			next.ServeHTTP(w, r)
			return
		}

		ActiveConnections.Inc()
		defer ActiveConnections.Dec()

		start := time.Now()
		next.ServeHTTP(w, r)

		// the route pattern is only known once chi has matched
		path := chi.RouteContext(r.Context()).RoutePattern()
		HttpRequestsTotal.WithLabelValues(path).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}
