package metrics

import (
	"net/http"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wildcard route prefixes whose trailing segments carry ids or symbols.
// Collapsing them keeps the path label at one series per route instead
// of one per job id.
var wildcardRoutes = []string{
	"/api/backtest/",
	"/api/reports/",
	"/api/watchlist/",
}

func requestPath(r *http.Request) string {
	path := r.URL.Path
	for _, prefix := range wildcardRoutes {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
			return prefix + "*"
		}
	}
	return path
}

// HTTPMiddleware returns middleware that records request count, latency,
// and in-flight gauge for every API request.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			reg.RecordRequest(r.Method, requestPath(r), rw.statusCode, time.Since(start).Seconds())
		})
	}
}
