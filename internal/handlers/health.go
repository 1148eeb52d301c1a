package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
)

type HealthHandler struct {
	db  *gorm.DB
	log logging.Logger
}

func NewHealthHandler(db *gorm.DB, log logging.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Healthz reports 200 when the database answers a ping and 503 otherwise.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		h.log.Warn(r.Context(), "health check failed", "error", err)
		httpx.JSON(w, http.StatusServiceUnavailable, httpx.HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.HealthResponse{Status: "ok", Database: "up"})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
