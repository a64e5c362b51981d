package handlers

import (
	"net/http"

	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

type refreshResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Refresh queues a manual refresh walk. The walk itself runs in the
// scheduler goroutine; a second request while one is queued gets 429.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, refreshResponse{
				Triggered: true,
				Message:   "refresh triggered",
			})
		default:
			d.Logger.Warn("refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, refreshResponse{
				Triggered: false,
				Message:   "refresh already in progress",
			})
		}
	}
}
