package middleware

import (
	"net/http"

	"landing/pkg/logutil"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog/log"
)

// Log tags each request context with a log id and logs the request once it
// has been served.
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := logutil.WithLogID(r.Context())
		r = r.WithContext(ctx)

		m := httpsnoop.CaptureMetrics(next, w, r)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Int64("bytes", m.Written).
			Dur("latency", m.Duration).
			Msg("served request")
	})
}
