package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/weighttrend/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a panicking handler into a 500 response. The panic is counted,
// logged with its stack and recorded on the request span.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// the server must see this one to abort the response
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Errorf("http: panic serving request: %v\n%s", rec, debug.Stack())

				span := trace.SpanFromContext(r.Context())
				span.RecordError(fmt.Errorf("panic: %v", rec))
				span.SetStatus(codes.Error, "panic")

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
