package handlers

import (
	"context"
	"net/http"
	"time"

	applog "palettefolio/internal/log"
)

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Health returns a readiness handler. When check is non-nil and fails the
// handler responds 503 with status "unavailable".
func Health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applog.Debug(r.Context(), "health check requested", "method", r.Method)
		resp := healthResponse{
			Status: "ok",
			Time:   time.Now().UTC(),
		}
		status := http.StatusOK

		if check != nil {
			if err := check(r.Context()); err != nil {
				applog.Warn(r.Context(), "health check failed", "error", err)
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, r, status, resp)
	}
}
