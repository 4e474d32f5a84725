package webhook

import (
	"net/http"

	"github.com/charly-com/safenaija/internal/gateway"
	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/ussd"

	"github.com/gin-gonic/gin"
)

// ussdRequest accepts both JSON bodies and the form posts sent by
// Africa's Talking style gateways.
type ussdRequest struct {
	SessionID   string `json:"sessionId" form:"sessionId"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Text        string `json:"text" form:"text"`
	ServiceCode string `json:"serviceCode" form:"serviceCode"`
}

type ussdResponse struct {
	Response string      `json:"response"`
	Action   ussd.Action `json:"action"`
}

func (h *Handler) ussd(c *gin.Context) {
	var (
		req  ussdRequest
		form = isForm(c)
		err  error
	)

	if form {
		err = c.ShouldBind(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}

	resp := ussd.Unavailable()
	if err != nil {
		logger.Warn("malformed ussd request", map[string]any{
			"content_type": c.ContentType(),
			"error":        err.Error(),
		})
	} else {
		resp = h.engine.Process(c.Request.Context(), gateway.Turn{
			SessionID:   req.SessionID,
			PhoneNumber: req.PhoneNumber,
			Text:        req.Text,
			ServiceCode: req.ServiceCode,
		})
	}

	// gateways treat anything but 200 as a dropped session
	if form {
		c.String(http.StatusOK, resp.Render())
		return
	}
	c.JSON(http.StatusOK, ussdResponse{
		Response: resp.Render(),
		Action:   resp.Action,
	})
}

// isForm reports an explicit form post; everything else is read as JSON.
func isForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
