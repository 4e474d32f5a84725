// Package webhook exposes the USSD gateway callback, the offline sync
// endpoint and the operator routes over HTTP.
package webhook

import (
	"net/http"

	"github.com/charly-com/safenaija/internal/gateway"
	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *gateway.Engine
	sink   incident.Sink
	ops    *middleware.OpsKeyMiddleware
}

func NewHandler(
	engine *gateway.Engine,
	sink incident.Sink,
	ops *middleware.OpsKeyMiddleware,
) *Handler {
	return &Handler{
		engine: engine,
		sink:   sink,
		ops:    ops,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/ussd/webhook", h.ussd)
	r.POST("/sync/offline", h.syncOffline)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ops := r.Group("/ops/ussd")
	ops.Use(middleware.GinRequireOpsKey(h.ops))
	ops.GET("/stats", h.stats)
	ops.GET("/sessions", h.sessions)
	ops.GET("/sessions/:id", h.session)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}
