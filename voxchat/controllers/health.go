package controllers

import (
	"context"
	"net/http"
	"time"

	"voxchat/voxchat/utils/logging"

	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

// NewHealthController builds the health check. db may be nil, in which
// case only process liveness is reported.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logging.ErrorLogger.Error("health check: database unreachable", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
