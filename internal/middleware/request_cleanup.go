package middleware

import (
	"io"
	"net/http"
)

const maxDrainBytes = 256 << 10

// DrainAndCloseRequest reads what the handler left of the request body and closes it.
// Bodies bigger than maxDrainBytes are only closed, which drops the keep-alive connection.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}
