package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/model"
)

// GetAlerts handles GET /api/alerts: the undismissed alerts view.
func (h *Handler) GetAlerts(c *gin.Context) {
	alerts, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyAlerts,
		func(ctx context.Context) ([]model.SensorAlert, error) {
			return h.client.ListAlerts(ctx, true)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// DismissAlert handles POST /api/alerts/:alert_id/dismiss. The dismissal is
// an upstream mutation; only after it succeeds is the cached alert view
// invalidated and the ledger updated.
func (h *Handler) DismissAlert(c *gin.Context) {
	alertID, err := strconv.ParseInt(c.Param("alert_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}

	alert, err := h.client.DismissAlert(c.Request.Context(), alertID)
	if err != nil {
		respondError(c, err)
		return
	}

	dismissedAt := time.Now().UTC()
	if alert.DismissedAt != nil {
		dismissedAt = *alert.DismissedAt
	}
	if err := h.store.MarkAlertDismissed(c.Request.Context(), alertID, dismissedAt); err != nil {
		// The upstream accepted the dismissal; the ledger catches up on the
		// next poll cycle.
		c.Error(err)
	}

	h.cache.Invalidate(cache.KeyAlerts)
	c.JSON(http.StatusOK, alert)
}
