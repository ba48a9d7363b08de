package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/tracing"
)

// Logger installs a request-scoped zerolog logger in the context and writes one
// access line per request. It runs after RequestID and Tracing so both ids are
// attached.
func Logger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			fields := base.With().Str("request_id", chimw.GetReqID(r.Context()))
			if traceID := tracing.TraceID(r.Context()); traceID != "" {
				fields = fields.Str("trace_id", traceID)
			}
			log := fields.Logger()
			ctx := log.WithContext(r.Context())

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
