package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobdesk/internal/db"
	"github.com/garnizeh/jobdesk/internal/reqctx"
)

const serviceName = "jobdesk"

type SystemHandler struct {
	db *db.DB
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type versionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime"`
}

// HealthHandler reports ok when the database answers a ping.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.GetConn().PingContext(r.Context()); err != nil {
			reqctx.Logger(r.Context(), logger).Error("health check failed", slog.Any("err", err))
			writeJSON(w, healthResponse{Status: "unavailable", Service: serviceName}, http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, healthResponse{Status: "ok", Service: serviceName}, http.StatusOK)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, versionResponse{Version: version, BuildTime: buildTime}, http.StatusOK)
	}
}
