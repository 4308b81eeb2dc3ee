package http

import (
	"net/http"
	"strings"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func WithMetrics(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		metrics.RecordRequest(r.Context(), r.Method, routePattern(r.URL.Path), rw.statusCode, duration)
	})
}

// routePattern collapses paths carrying receipt ids so metric labels stay
// low-cardinality.
func routePattern(path string) string {
	if strings.HasPrefix(path, "/receipts/") && strings.HasSuffix(path, "/points") {
		return "/receipts/{id}/points"
	}
	return path
}
