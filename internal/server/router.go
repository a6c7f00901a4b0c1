package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kaipinbao/kaipinbao-backend/internal/handlers"
	"github.com/kaipinbao/kaipinbao-backend/internal/middleware"
	"github.com/kaipinbao/kaipinbao-backend/internal/observability"
)

type RouterConfig struct {
	ProjectHandler *handlers.ProjectHandler
	ChatHandler    *handlers.ChatHandler
	MarketHandler  *handlers.MarketHandler
	ScrapeHandler  *handlers.ScrapeHandler
	EventsHandler  *handlers.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	if observability.Enabled() {
		router.Use(otelgin.Middleware(observability.ServiceName))
	}
	router.Use(middleware.CORS())

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Projects
		if cfg.ProjectHandler != nil {
			api.POST("/projects", cfg.ProjectHandler.Create)
			api.GET("/projects", cfg.ProjectHandler.List)
			api.GET("/projects/:id", cfg.ProjectHandler.Get)
			api.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
			api.POST("/projects/:id/stage", cfg.ProjectHandler.AdvanceStage)
			api.GET("/projects/:id/messages", cfg.ProjectHandler.ListMessages)
			api.GET("/projects/:id/prd", cfg.ProjectHandler.GetPrd)
			api.PATCH("/projects/:id/prd", cfg.ProjectHandler.PatchPrd)
			api.POST("/projects/:id/competitors", cfg.ProjectHandler.AddCompetitor)
			api.GET("/projects/:id/competitors", cfg.ProjectHandler.ListCompetitors)
			api.GET("/competitors/:id/reviews", cfg.ProjectHandler.ListCompetitorReviews)
		}

		// Chat (streaming)
		if cfg.ChatHandler != nil {
			api.POST("/chat", cfg.ChatHandler.Stream)
		}

		// Market analysis
		if cfg.MarketHandler != nil {
			api.POST("/market-analysis", cfg.MarketHandler.Generate)
			api.GET("/projects/:id/market-analysis", cfg.MarketHandler.Get)
		}

		// Scrape jobs
		if cfg.ScrapeHandler != nil {
			api.POST("/scrape", cfg.ScrapeHandler.Run)
		}

		// Project events (SSE)
		if cfg.EventsHandler != nil {
			api.GET("/projects/:id/events", cfg.EventsHandler.Stream)
		}
	}

	return router
}
