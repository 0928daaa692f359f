package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/app"
	"github.com/yungbote/postforge-backend/internal/db"
	"github.com/yungbote/postforge-backend/internal/handlers"
	"github.com/yungbote/postforge-backend/internal/observability"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/render"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/server"
	"github.com/yungbote/postforge-backend/internal/services"
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

	// Tracing
	shutdownTracing := observability.InitTracing(context.Background(), log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	// Config
	cfg := app.LoadConfig(log)

	// Database
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	projectRepo := repos.NewProjectRepo(thePG, log)
	outputRepo := repos.NewOutputRepo(thePG, log)
	versionRepo := repos.NewContentVersionRepo(thePG, log)
	carouselRepo := repos.NewCarouselRepo(thePG, log)
	templateRepo := repos.NewTemplateRepo(thePG, log)
	imageRepo := repos.NewImageRepo(thePG, log)
	messageRepo := repos.NewMessageRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	aiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	imageClient, err := services.NewOpenAIImageClient(log)
	if err != nil {
		log.Error("Could not init OpenAI image client", "error", err)
		os.Exit(1)
	}

	settingsCache := services.NewSettingsCache(log, cfg.SettingsLoader(), cfg.SettingsTTL)
	promptService := services.NewPromptService(log, settingsCache)

	var slideRenderer *render.SlideRenderer
	if renderer, err := render.NewSlideRenderer(log, cfg.FontPath); err != nil {
		// Export is degraded without a font; everything else still works.
		log.Warn("Slide renderer unavailable, carousel export disabled", "error", err)
	} else {
		slideRenderer = renderer
	}

	imageService := services.NewImageService(log, imageClient, imageRepo)
	dispatcher := actions.NewDispatcher(log, imageService, imageService)
	contentService := services.NewContentService(log, aiClient, promptService, projectRepo, outputRepo, versionRepo)
	projectService := services.NewProjectService(log, thePG, projectRepo, outputRepo, versionRepo, carouselRepo, templateRepo, imageRepo, messageRepo)
	chatService := services.NewChatService(log, aiClient, promptService, dispatcher, contentService, projectRepo, outputRepo, versionRepo, carouselRepo, messageRepo)
	carouselService := services.NewCarouselService(log, thePG, aiClient, promptService, slideRenderer, projectRepo, outputRepo, carouselRepo, templateRepo)

	// Handlers
	log.Info("Setting up handlers...")
	projectHandler := handlers.NewProjectHandler(log, projectService)
	contentHandler := handlers.NewContentHandler(log, contentService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	imageHandler := handlers.NewImageHandler(log, imageService)
	carouselHandler := handlers.NewCarouselHandler(log, carouselService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		CORSOrigins:     cfg.CORSOrigins,
		ProjectHandler:  projectHandler,
		ContentHandler:  contentHandler,
		ChatHandler:     chatHandler,
		ImageHandler:    imageHandler,
		CarouselHandler: carouselHandler,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
