package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
)

// GetQuotes handles GET /api/quotes.
func (h *Handler) GetQuotes(c *gin.Context) {
	quotes, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyQuotes,
		func(ctx context.Context) ([]backend.Quote, error) {
			return h.client.ListQuotes(ctx)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// CreateQuote handles POST /api/quotes.
func (h *Handler) CreateQuote(c *gin.Context) {
	var req backend.Quote
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.client.CreateQuote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Invalidate(cache.KeyQuotes)
	c.JSON(http.StatusCreated, quote)
}

// GetContracts handles GET /api/contracts.
func (h *Handler) GetContracts(c *gin.Context) {
	contracts, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyContracts,
		func(ctx context.Context) ([]backend.Contract, error) {
			return h.client.ListContracts(ctx)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// CreateContract handles POST /api/contracts.
func (h *Handler) CreateContract(c *gin.Context) {
	var req backend.Contract
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.client.CreateContract(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Invalidate(cache.KeyContracts)
	c.JSON(http.StatusCreated, contract)
}

// GetSafetyCheckItems handles GET /api/safety/items.
func (h *Handler) GetSafetyCheckItems(c *gin.Context) {
	items, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeySafety,
		func(ctx context.Context) ([]backend.SafetyCheckItem, error) {
			return h.client.ListSafetyCheckItems(ctx)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateSafetyCheckRecord handles POST /api/safety/records.
func (h *Handler) CreateSafetyCheckRecord(c *gin.Context) {
	var req backend.SafetyCheckRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.client.CreateSafetyCheckRecord(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetKnowledgeArticles handles GET /api/articles.
func (h *Handler) GetKnowledgeArticles(c *gin.Context) {
	articles, err := cache.Fetch(c.Request.Context(), h.cache, cache.KeyArticles,
		func(ctx context.Context) ([]backend.KnowledgeArticle, error) {
			return h.client.ListKnowledgeArticles(ctx)
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetKnowledgeArticle handles GET /api/articles/:article_id.
func (h *Handler) GetKnowledgeArticle(c *gin.Context) {
	articleID, err := strconv.ParseInt(c.Param("article_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid article ID"})
		return
	}

	article, err := h.client.GetKnowledgeArticle(c.Request.Context(), articleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}
