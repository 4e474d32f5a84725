package webhook

import (
	"errors"
	"net/http"

	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) stats(c *gin.Context) {
	st, err := h.engine.Stats(c.Request.Context())
	if err != nil {
		logger.Error("ussd stats failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) sessions(c *gin.Context) {
	all, err := h.engine.Sessions(c.Request.Context())
	if err != nil {
		logger.Error("ussd session list failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	if all == nil {
		all = []session.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": all})
}

func (h *Handler) session(c *gin.Context) {
	sess, err := h.engine.Session(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case err != nil:
		logger.Error("ussd session lookup failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
	default:
		c.JSON(http.StatusOK, sess)
	}
}
