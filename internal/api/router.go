package api

import (
	"golang.org/x/time/rate"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/config"
	"bathhouse-frontdesk/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, handler *Handler) *gin.Engine {
	r := gin.Default()

	limit := rate.Limit(10)
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}
	burst := 5
	if cfg.RateLimitBurst > 0 {
		burst = cfg.RateLimitBurst
	}
	rateLimiter := mw.RateLimiter(limit, burst)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/status", handler.GetStatus)
		api.POST("/session/signout", handler.SignOut)

		api.GET("/rooms", handler.GetRooms)
		api.PATCH("/rooms/:room_id/status", handler.PatchRoomStatus)
		api.GET("/rooms/:room_id/readings", handler.GetRoomReadings)
		api.GET("/rooms/:room_id/availability", handler.GetRoomAvailability)

		api.GET("/alerts", handler.GetAlerts)
		api.POST("/alerts/:alert_id/dismiss", handler.DismissAlert)

		api.GET("/bookings", handler.GetBookings)
		api.POST("/bookings", handler.CreateBooking)
		api.POST("/bookings/:booking_id/checkin", handler.BookingAction("checkin"))
		api.POST("/bookings/:booking_id/checkout", handler.BookingAction("checkout"))
		api.POST("/bookings/:booking_id/cancel", handler.BookingAction("cancel"))

		api.GET("/customers", handler.GetCustomers)
		api.POST("/customers", handler.CreateCustomer)
		api.GET("/customers/lookup", handler.LookupCustomer)
		api.GET("/customers/:customer_id", handler.GetCustomer)
		api.PATCH("/customers/:customer_id", handler.UpdateCustomer)
		api.POST("/customers/:customer_id/verify_pin", handler.VerifyCustomerPIN)
		api.GET("/customers/:customer_id/passes", handler.GetCustomerPasses)
		api.POST("/customers/:customer_id/passes", handler.CreateCustomerPass)

		api.GET("/quotes", handler.GetQuotes)
		api.POST("/quotes", handler.CreateQuote)
		api.GET("/contracts", handler.GetContracts)
		api.POST("/contracts", handler.CreateContract)

		api.GET("/safety/items", handler.GetSafetyCheckItems)
		api.POST("/safety/records", handler.CreateSafetyCheckRecord)

		api.GET("/articles", handler.GetKnowledgeArticles)
		api.GET("/articles/:article_id", handler.GetKnowledgeArticle)

		api.POST("/payment_intents", handler.CreatePaymentIntent)
		api.POST("/payment_intents/:intent_id/confirm", handler.ConfirmPaymentIntent)

		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
