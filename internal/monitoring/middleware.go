package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Middleware records request count, duration and active connections per path
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		HTTPRequestsTotal.WithLabelValues(path).Inc()
		ActiveConnections.Inc()

		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(path))

		next.ServeHTTP(w, r)

		timer.ObserveDuration()
		ActiveConnections.Dec()
	})
}
