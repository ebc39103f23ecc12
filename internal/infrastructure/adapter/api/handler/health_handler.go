package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/usecase/reconcile"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database"
)

// Pinger checks database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolReporter is implemented by databases that sample their connection pool
type PoolReporter interface {
	PoolMetrics() database.ConnectionPoolMetrics
}

// CycleReporter exposes the last completed recovery cycle
type CycleReporter interface {
	LastReport() *reconcile.CycleReport
}

// HealthHandler reports liveness of the service and its dependencies
type HealthHandler struct {
	db           Pinger
	scheduler    CycleReporter
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a new health handler. scheduler may be nil when recovery is disabled.
func NewHealthHandler(db Pinger, scheduler CycleReporter, timeProvider coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{
		db:           db,
		scheduler:    scheduler,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   "ok",
		Database: "ok",
		Time:     h.timeProvider.Now().UTC(),
	}
	code := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("Health check database ping failed", map[string]any{
			"error": err.Error(),
		})
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if pr, ok := h.db.(PoolReporter); ok {
		if m := pr.PoolMetrics(); !m.SampledAt.IsZero() {
			resp.Pool = &dto.PoolHealth{
				Open:      m.Open,
				InUse:     m.InUse,
				Idle:      m.Idle,
				MaxOpen:   m.MaxOpen,
				WaitCount: m.WaitCount,
				Saturated: m.Saturated,
			}
		}
	}

	if h.scheduler != nil {
		if report := h.scheduler.LastReport(); report != nil {
			started := report.StartedAt.UTC()
			resp.Scheduler = &dto.SchedulerHealth{
				LastCycleAt: &started,
				DurationMs:  report.Duration.Milliseconds(),
				Scanned:     report.Scanned,
				Updated:     report.Updated,
				Skipped:     report.Skipped,
				Failed:      report.Failed,
			}
		} else {
			resp.Scheduler = &dto.SchedulerHealth{}
		}
	}

	c.JSON(code, resp)
}
