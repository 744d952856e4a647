package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
)

func bookingsKey(day string) string {
	return cache.Key(cache.KeyBookings, day)
}

// GetBookings handles GET /api/bookings?day=YYYY-MM-DD (defaults to today).
func (h *Handler) GetBookings(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}

	bookings, err := cache.Fetch(c.Request.Context(), h.cache, bookingsKey(day),
		func(ctx context.Context) ([]backend.Booking, error) {
			return h.client.ListBookings(ctx, day)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req backend.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.client.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateBookingViews()
	c.JSON(http.StatusCreated, booking)
}

// BookingAction handles POST /api/bookings/:booking_id/{checkin,checkout,cancel}.
// The gateway never computes the next status itself; it only forwards the
// requested action and reflects the upstream's answer.
func (h *Handler) BookingAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseInt(c.Param("booking_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
			return
		}

		var booking *backend.Booking
		switch action {
		case "checkin":
			booking, err = h.client.CheckInBooking(c.Request.Context(), bookingID)
		case "checkout":
			booking, err = h.client.CheckOutBooking(c.Request.Context(), bookingID)
		case "cancel":
			booking, err = h.client.CancelBooking(c.Request.Context(), bookingID)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		h.invalidateBookingViews()
		c.JSON(http.StatusOK, booking)
	}
}

// invalidateBookingViews drops the cached booking and room views after a
// successful booking mutation. Check-in and check-out also move the room
// through its lifecycle upstream, so the room view is invalidated too.
func (h *Handler) invalidateBookingViews() {
	h.cache.InvalidatePrefix(cache.KeyBookings)
	h.cache.Invalidate(cache.KeyRooms)
}
