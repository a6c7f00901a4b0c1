package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/services"
)

type ScrapeHandler struct {
	log    *logger.Logger
	scrape services.ScrapeService
}

func NewScrapeHandler(log *logger.Logger, scrape services.ScrapeService) *ScrapeHandler {
	return &ScrapeHandler{log: log.With("handler", "ScrapeHandler"), scrape: scrape}
}

type scrapeRequest struct {
	ProductID string `json:"productId"`
	URL       string `json:"url"`
}

// POST /api/scrape
//
// The job outcome is also durable on the competitor product row; a
// failed fetch leaves status=failed for the UI's manual retry.
func (h *ScrapeHandler) Run(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid productId"})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "url required"})
		return
	}

	outcome, err := h.scrape.Run(c.Request.Context(), productID, req.URL)
	if err != nil {
		h.log.Warn("Scrape job failed", "productID", productID, "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"productInfo":      gin.H{"title": outcome.ProductTitle},
		"reviewCount":      outcome.ReviewCount,
		"hasScreenshot":    outcome.HasScreenshot,
		"hasReviewSummary": outcome.HasReviewSummary,
	})
}
