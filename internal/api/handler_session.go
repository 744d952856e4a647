package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus handles GET /api/status: gateway health plus push channel states,
// which the UI uses for its offline badge.
func (h *Handler) GetStatus(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if h.sensorCh != nil {
		status["sensorChannel"] = h.sensorCh.State()
	}
	if h.alertCh != nil {
		status["alertChannel"] = h.alertCh.State()
	}
	c.JSON(http.StatusOK, status)
}

// SignOut handles POST /api/session/signout. The request cache and live
// telemetry windows are cleared explicitly; nothing else is torn down.
func (h *Handler) SignOut(c *gin.Context) {
	h.cache.Clear()
	h.hub.Reset()
	c.Status(http.StatusNoContent)
}
