package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/model"
	"bathhouse-frontdesk/internal/telemetry"
)

// GetRooms handles GET /api/rooms. Served from the request cache; the bulk
// poller and lifecycle pushes keep it fresh. Falls back to the local mirror
// when the upstream is unreachable.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyRooms,
		func(ctx context.Context) ([]model.Room, error) {
			return h.client.ListRooms(ctx)
		})
	if err != nil {
		if backend.IsUnauthorized(err) {
			respondError(c, err)
			return
		}
		mirrored, storeErr := h.store.Rooms(c.Request.Context())
		if storeErr != nil || len(mirrored) == 0 {
			respondError(c, err)
			return
		}
		rooms = mirrored
	}
	c.JSON(http.StatusOK, rooms)
}

// PatchRoomStatus handles PATCH /api/rooms/:room_id/status. The upstream
// validates the transition; on success the cached room view is invalidated so
// the next read observes the new status.
func (h *Handler) PatchRoomStatus(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	var req struct {
		Status model.RoomStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.client.PatchRoomStatus(c.Request.Context(), roomID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Invalidate(cache.KeyRooms)
	c.JSON(http.StatusOK, room)
}

// GetRoomReadings handles GET /api/rooms/:room_id/readings. The response is
// the merged series: archived history plus the live push window, ordered,
// deduplicated and capped to the chart window.
func (h *Handler) GetRoomReadings(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	window := h.hub.Window()
	batch, err := cache.Fetch(c.Request.Context(), h.cache, cache.ReadingsKey(roomID),
		func(ctx context.Context) ([]telemetry.Point, error) {
			readings, err := h.store.RoomReadings(ctx, roomID, window)
			if err != nil {
				return nil, err
			}
			points := make([]telemetry.Point, len(readings))
			for i, r := range readings {
				points[i] = telemetry.Point{
					Timestamp:         r.ObservedAt,
					TemperatureTenths: r.TemperatureTenths,
					HumidityTenths:    r.HumidityTenths,
				}
			}
			return points, nil
		})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load reading history"})
		return
	}

	merged := telemetry.Merge(batch, h.hub.Live(roomID), window)
	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "readings": merged})
}

// GetRoomAvailability handles GET /api/rooms/:room_id/availability. Proxied
// uncached: availability changes with every booking.
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	day := c.Query("day")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}

	slots, err := h.client.RoomAvailability(c.Request.Context(), roomID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
