package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DependencyChecker reports whether a backing service is reachable.
type DependencyChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]DependencyChecker
	log    *zap.Logger
}

// NewHealthHandler constructs a HealthHandler with named dependency checks.
func NewHealthHandler(checks map[string]DependencyChecker, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{checks: checks, log: log}
}

// Healthz handles GET /healthz. The process is alive if it can answer.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz handles GET /readyz. It probes every registered dependency with a
// short timeout and reports per-dependency status.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	statuses := make(map[string]string, len(h.checks))
	ready := true

	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			h.log.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			statuses[name] = "unavailable"
			ready = false
			continue
		}
		statuses[name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	c.JSON(status, gin.H{"status": state, "dependencies": statuses})
}
