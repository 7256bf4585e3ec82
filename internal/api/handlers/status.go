package handlers

import (
	"net/http"

	"github.com/finsignal/screener/internal/scheduler"
	"github.com/finsignal/screener/internal/storage"
	"github.com/finsignal/screener/pkg/database"
	"github.com/finsignal/screener/pkg/logger"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// StatusHandler reports service, database and scheduler health.
type StatusHandler struct {
	db     *database.DB
	stats  *storage.StatsRepository
	redis  *redisclient.Client
	sched  *scheduler.Scheduler
	logger *logger.Logger
}

// NewStatusHandler creates a new status handler. sched may be nil when
// the server runs without the scheduler.
func NewStatusHandler(db *database.DB, rdb *redisclient.Client, sched *scheduler.Scheduler, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		stats:  storage.NewStatsRepository(db.Pool),
		redis:  rdb,
		sched:  sched,
		logger: log,
	}
}

// Health is a lightweight liveness probe.
// GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "screener-api",
	})
}

// Status returns database pool health, cache availability and job
// statistics.
// GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := map[string]interface{}{
		"service": "screener-api",
	}

	health, err := h.db.HealthCheck(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		resp["database"] = map[string]interface{}{"healthy": false, "error": err.Error()}
	} else {
		resp["database"] = health
	}

	resp["redis"] = map[string]interface{}{
		"enabled": h.redis != nil && h.redis.Enabled(),
	}

	if stats, err := h.stats.Get(ctx); err != nil {
		h.logger.WithError(err).Warn("Failed to read dataset stats")
	} else {
		resp["dataset"] = stats
	}

	if h.sched != nil {
		resp["jobs"] = h.sched.GetJobStats()
	}

	respondJSON(w, http.StatusOK, resp)
}
