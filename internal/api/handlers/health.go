package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/finbrief/pkg/database"
	"github.com/wonny/finbrief/pkg/redis"
)

// HealthHandler reports service and dependency status
type HealthHandler struct {
	db    *database.DB  // nil when DATABASE_URL is unset
	redis *redis.Client // nil or disabled when Redis is off
}

// NewHealthHandler creates a new health handler. Both dependencies are optional.
func NewHealthHandler(db *database.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]interface{}{
		"status":  "ok",
		"service": "finbrief",
	}

	if h.db == nil {
		body["database"] = "disabled"
	} else {
		dbStatus, err := h.db.HealthCheck(ctx)
		body["database"] = dbStatus
		if err != nil {
			status = http.StatusServiceUnavailable
		}
	}

	switch {
	case h.redis == nil || !h.redis.Enabled():
		body["redis"] = "disabled"
	default:
		if err := h.redis.Ping(ctx); err != nil {
			body["redis"] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			body["redis"] = "ok"
		}
	}

	if status != http.StatusOK {
		body["status"] = "degraded"
	}

	respondJSON(w, status, body)
}
