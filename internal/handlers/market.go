package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/gemini"
	"github.com/kaipinbao/kaipinbao-backend/internal/services"
)

type MarketHandler struct {
	market services.MarketAnalysisService
}

func NewMarketHandler(market services.MarketAnalysisService) *MarketHandler {
	return &MarketHandler{market: market}
}

type marketRequest struct {
	ProjectID string `json:"projectId"`
}

// POST /api/market-analysis
//
// Rate-limit and quota exhaustion get dedicated statuses (429 / 402)
// so the UI can say more than "try again".
func (h *MarketHandler) Generate(c *gin.Context) {
	var req marketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid projectId"})
		return
	}

	analysis, err := h.market.Generate(c.Request.Context(), projectID)
	if err != nil {
		switch {
		case gemini.IsQuotaExhausted(err):
			c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "error": "AI 配额已用尽，请检查账户额度"})
		case gemini.IsRateLimited(err):
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "请求过于频繁，请稍后再试"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

// GET /api/projects/:id/market-analysis
func (h *MarketHandler) Get(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	analysis, err := h.market.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "market_analysis_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"analysis": analysis})
}
