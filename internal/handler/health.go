package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
	log    *slog.Logger
}

// NewHealthHandler builds the liveness/readiness handler. checks are keyed by component name.
func NewHealthHandler(checks map[string]Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and fails with 503 if any is unreachable.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(gin.H, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.WarnContext(ctx, "readiness check failed", "component", name, "err", err)
			components[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	body := gin.H{"status": "ready", "components": components}
	if status != http.StatusOK {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}
