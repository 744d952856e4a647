package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
)

type createPaymentIntentRequest struct {
	AmountCents int64                        `json:"amountCents" binding:"required"`
	Booking     backend.CreateBookingRequest `json:"booking" binding:"required"`
}

// CreatePaymentIntent handles POST /api/payment_intents. The returned client
// secret drives the hosted payment widget in the browser.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req createPaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.client.CreatePaymentIntent(c.Request.Context(), req.AmountCents, req.Booking)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

type confirmPaymentIntentRequest struct {
	Booking backend.CreateBookingRequest `json:"booking" binding:"required"`
}

// ConfirmPaymentIntent handles POST /api/payment_intents/:intent_id/confirm.
// On success the pending booking exists upstream, so the booking views are
// invalidated.
func (h *Handler) ConfirmPaymentIntent(c *gin.Context) {
	intentID := c.Param("intent_id")
	if intentID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "intent ID is required"})
		return
	}

	var req confirmPaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.client.ConfirmPaymentIntent(c.Request.Context(), intentID, req.Booking)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateBookingViews()
	c.JSON(http.StatusOK, booking)
}
