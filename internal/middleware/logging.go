package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest logs every request at trace level, failed ones (5xx) at warn.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			resp := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(resp, r)

			entry := log.WithFields(log.Fields{
				"method":   r.Method,
				"route":    routeTemplate(r),
				"path":     r.URL.Path,
				"status":   resp.statusCode,
				"duration": time.Since(start).String(),
			})
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Trace("request")
		})
	}
}
