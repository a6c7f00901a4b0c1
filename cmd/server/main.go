package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/firecrawl"
	"github.com/kaipinbao/kaipinbao-backend/internal/clients/gemini"
	"github.com/kaipinbao/kaipinbao-backend/internal/db"
	"github.com/kaipinbao/kaipinbao-backend/internal/handlers"
	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/observability"
	"github.com/kaipinbao/kaipinbao-backend/internal/repos"
	"github.com/kaipinbao/kaipinbao-backend/internal/server"
	"github.com/kaipinbao/kaipinbao-backend/internal/services"
	"github.com/kaipinbao/kaipinbao-backend/internal/sse"
	"github.com/kaipinbao/kaipinbao-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing (env-gated)
	otelShutdown := observability.InitOTel(context.Background(), log, observability.Config{
		Environment: logMode,
		Version:     os.Getenv("APP_VERSION"),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				log.Warn("OTel shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	projectRepo := repos.NewProjectRepo(thePG, log)
	messageRepo := repos.NewChatMessageRepo(thePG, log)
	docRepo := repos.NewPrdDocumentRepo(thePG, log)
	productRepo := repos.NewCompetitorProductRepo(thePG, log)
	reviewRepo := repos.NewCompetitorReviewRepo(thePG, log)
	analysisRepo := repos.NewMarketAnalysisRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub...")
	hub := sse.NewHub(log)
	notifier := services.NewNotifier(log, hub)

	// Clients
	geminiClient, err := gemini.NewClient(log)
	if err != nil {
		log.Fatal("Could not init GeminiClient", "error", err)
	}
	firecrawlClient, err := firecrawl.NewClient(log)
	if err != nil {
		log.Fatal("Could not init FirecrawlClient", "error", err)
	}
	turnLock, err := services.NewTurnLock(log)
	if err != nil {
		log.Fatal("Could not init TurnLock", "error", err)
	}
	defer turnLock.Close()

	// Services
	log.Info("Setting up services...")
	projectService := services.NewProjectService(thePG, log, projectRepo, messageRepo, docRepo, productRepo, reviewRepo, notifier)
	chatService := services.NewChatService(thePG, log, geminiClient, turnLock, messageRepo, docRepo, productRepo, reviewRepo, analysisRepo, notifier)
	marketService := services.NewMarketAnalysisService(thePG, log, geminiClient, projectRepo, productRepo, docRepo, analysisRepo, notifier)
	scrapeService := services.NewScrapeService(thePG, log, firecrawlClient, productRepo, reviewRepo, notifier)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ProjectHandler: handlers.NewProjectHandler(projectService),
		ChatHandler:    handlers.NewChatHandler(log, chatService),
		MarketHandler:  handlers.NewMarketHandler(marketService),
		ScrapeHandler:  handlers.NewScrapeHandler(log, scrapeService),
		EventsHandler:  handlers.NewEventsHandler(log, hub),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
