package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
)

// GetCustomers handles GET /api/customers.
func (h *Handler) GetCustomers(c *gin.Context) {
	customers, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyCustomers,
		func(ctx context.Context) ([]backend.Customer, error) {
			return h.client.ListCustomers(ctx)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /api/customers/:customer_id.
func (h *Handler) GetCustomer(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}
	customer, err := h.client.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles POST /api/customers.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req backend.Customer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.client.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Invalidate(cache.KeyCustomers)
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles PATCH /api/customers/:customer_id.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.client.UpdateCustomer(c.Request.Context(), customerID, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Invalidate(cache.KeyCustomers)
	c.JSON(http.StatusOK, customer)
}

// LookupCustomer handles GET /api/customers/lookup?phone=...
func (h *Handler) LookupCustomer(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}

	customer, err := h.client.LookupCustomerByPhone(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// VerifyCustomerPIN handles POST /api/customers/:customer_id/verify_pin. The
// PIN check happens upstream; the gateway never sees stored PINs.
func (h *Handler) VerifyCustomerPIN(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var req struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid, err := h.client.VerifyCustomerPIN(c.Request.Context(), customerID, req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// GetCustomerPasses handles GET /api/customers/:customer_id/passes.
func (h *Handler) GetCustomerPasses(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}
	passes, err := h.client.ListCustomerPasses(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passes)
}

// CreateCustomerPass handles POST /api/customers/:customer_id/passes.
func (h *Handler) CreateCustomerPass(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var req backend.CustomerPass
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pass, err := h.client.CreateCustomerPass(c.Request.Context(), customerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pass)
}

func customerIDParam(c *gin.Context) (int64, bool) {
	customerID, err := strconv.ParseInt(c.Param("customer_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
		return 0, false
	}
	return customerID, true
}
