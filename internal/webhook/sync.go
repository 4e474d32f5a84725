package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/logger"

	"github.com/gin-gonic/gin"
)

// offlineItem is one entry of a device's offline queue.
type offlineItem struct {
	ID        string          `json:"id" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Data      json.RawMessage `json:"data" binding:"required"`
	Timestamp int64           `json:"timestamp"`
	Priority  string          `json:"priority"`
}

type offlineAlert struct {
	PhoneNumber   string `json:"phoneNumber"`
	EmergencyType string `json:"emergencyType"`
	Location      string `json:"location"`
	Description   string `json:"description"`
}

type offlineReport struct {
	PhoneNumber string `json:"phoneNumber"`
	CrimeType   string `json:"crimeType"`
	Timeframe   string `json:"timeframe"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (h *Handler) syncOffline(c *gin.Context) {
	var item offlineItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	createdAt := time.Now()
	if item.Timestamp > 0 {
		createdAt = time.UnixMilli(item.Timestamp)
	}

	ctx := c.Request.Context()

	switch item.Type {
	case "alert":
		var data offlineAlert
		if err := json.Unmarshal(item.Data, &data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert data"})
			return
		}

		a := incident.NewAlert(incident.KindOfflineSync, createdAt)
		a.PhoneNumber = data.PhoneNumber
		a.EmergencyType = data.EmergencyType
		a.Location = data.Location
		a.Description = data.Description
		a.Reference = item.ID

		if err := h.sink.CreateAlert(ctx, a); err != nil {
			h.syncFailed(c, item, err)
			return
		}

	case "report":
		var data offlineReport
		if err := json.Unmarshal(item.Data, &data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report data"})
			return
		}

		r := incident.NewReport(createdAt)
		r.PhoneNumber = data.PhoneNumber
		r.CrimeType = data.CrimeType
		r.Timeframe = data.Timeframe
		r.Location = data.Location
		r.Description = data.Description
		r.Reference = item.ID

		if err := h.sink.CreateReport(ctx, r); err != nil {
			h.syncFailed(c, item, err)
			return
		}

	case "location", "voice":
		logger.Info("offline item accepted", map[string]any{
			"id":       item.ID,
			"type":     item.Type,
			"priority": item.Priority,
			"bytes":    len(item.Data),
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": item.ID})
}

func (h *Handler) syncFailed(c *gin.Context, item offlineItem, err error) {
	logger.Error("offline sync failed", map[string]any{
		"id":    item.ID,
		"type":  item.Type,
		"error": err.Error(),
	})
	c.JSON(http.StatusBadGateway, gin.H{"error": "sync failed"})
}
