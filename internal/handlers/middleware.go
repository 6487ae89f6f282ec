package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	applog "palettefolio/internal/log"
)

// WithRequestLogging copies chi's request id into the logging context and logs
// every request once it completes. It must run after middleware.RequestID.
func WithRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = applog.WithRequestID(ctx, id)
			r = r.WithContext(ctx)
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		applog.Debug(ctx, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
		)
	})
}
