// internal/handler/dashboard_handler.go
package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/response"
	"github.com/unclebandit/campaign-manager/internal/service"
)

// DashboardHandler serves the aggregate and liveness endpoints
type DashboardHandler struct {
	Service     service.CampaignServicer
	Log         *zap.Logger
	ShowErrors  bool
	PingTimeout time.Duration
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(svc service.CampaignServicer, log *zap.Logger, showErrors bool) *DashboardHandler {
	return &DashboardHandler{
		Service:     svc,
		Log:         log,
		ShowErrors:  showErrors,
		PingTimeout: 2 * time.Second,
	}
}

// StatsHandler returns the dashboard figures
func (h *DashboardHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DashboardStats(r.Context())
	if err != nil {
		h.Log.Error("Failed to fetch dashboard statistics", zap.Error(err))
		response.Internal(w, "Failed to fetch dashboard statistics", err, h.ShowErrors)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// HealthHandler probes the store and reports its reachability
func (h *DashboardHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.PingTimeout)
	defer cancel()

	if err := h.Service.Health(ctx); err != nil {
		h.Log.Warn("Health check failed", zap.Error(err))
		body := healthResponse{
			Status:   "error",
			Message:  "Campaign Manager API is running but database connection failed",
			Database: "disconnected",
		}
		if h.ShowErrors {
			body.Error = err.Error()
		}
		response.JSON(w, http.StatusServiceUnavailable, body)
		return
	}

	response.JSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Message:  "Campaign Manager API is running",
		Database: "connected",
	})
}
