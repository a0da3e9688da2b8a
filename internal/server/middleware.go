package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// withLogging attaches logger to every request context and logs one line per
// request once the handler returns.
func withLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		if status == 0 {
			status = http.StatusOK
		}
		log := hlog.FromRequest(r)
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", size).
			Dur("duration", duration).
			Msg("http request")
	})
	return hlog.NewHandler(logger)(access(next))
}
