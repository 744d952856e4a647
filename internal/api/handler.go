package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/push"
	"bathhouse-frontdesk/internal/store"
	"bathhouse-frontdesk/internal/telemetry"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	client   *backend.Client
	cache    *cache.Service
	store    store.Store
	hub      *telemetry.Hub
	webpush  *webpush.Options
	sensorCh *push.Channel
	alertCh  *push.Channel
}

// NewHandler creates a new API handler.
func NewHandler(client *backend.Client, c *cache.Service, s store.Store, hub *telemetry.Hub, webpushOptions *webpush.Options, sensorCh, alertCh *push.Channel) *Handler {
	return &Handler{
		client:   client,
		cache:    c,
		store:    s,
		hub:      hub,
		webpush:  webpushOptions,
		sensorCh: sensorCh,
		alertCh:  alertCh,
	}
}

// respondError maps client errors onto HTTP responses: authorization failures
// become 401 (the browser redirects to login), upstream rejections keep their
// status and message, everything else is a bad gateway.
func respondError(c *gin.Context, err error) {
	if backend.IsUnauthorized(err) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
