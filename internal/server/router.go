package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/postforge-backend/internal/handlers"
	"github.com/yungbote/postforge-backend/internal/middleware"
	"github.com/yungbote/postforge-backend/internal/observability"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	CORSOrigins     []string
	ProjectHandler  *handlers.ProjectHandler
	ContentHandler  *handlers.ContentHandler
	ChatHandler     *handlers.ChatHandler
	ImageHandler    *handlers.ImageHandler
	CarouselHandler *handlers.CarouselHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(observability.ServiceName))
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Projects + workflow
		api.POST("/projects", cfg.ProjectHandler.Create)
		api.GET("/projects", cfg.ProjectHandler.List)
		api.GET("/projects/:id", cfg.ProjectHandler.Get)
		api.PATCH("/projects/:id", cfg.ProjectHandler.UpdateSetup)
		api.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
		api.POST("/projects/:id/step/next", cfg.ProjectHandler.NextStep)
		api.POST("/projects/:id/step/previous", cfg.ProjectHandler.PreviousStep)
		api.PUT("/projects/:id/step", cfg.ProjectHandler.GoToStep)
		api.PUT("/projects/:id/status", cfg.ProjectHandler.UpdateStatus)

		// Content sections
		api.POST("/projects/:id/content/:type/generate", cfg.ContentHandler.Generate)
		api.POST("/projects/:id/content/:type/regenerate", cfg.ContentHandler.Regenerate)
		api.POST("/projects/:id/content/:type/more", cfg.ContentHandler.AddMore)
		api.POST("/projects/:id/content/:type/reset", cfg.ContentHandler.Reset)
		api.PUT("/projects/:id/content/:type/selection", cfg.ContentHandler.Select)
		api.PUT("/projects/:id/content/:type/items/:index", cfg.ContentHandler.Edit)
		api.DELETE("/projects/:id/content/:type/items/:index", cfg.ContentHandler.Remove)
		api.POST("/projects/:id/content/:type/items/:index/revert", cfg.ContentHandler.Revert)
		api.GET("/projects/:id/versions", cfg.ContentHandler.History)

		// Assistant chat
		api.POST("/projects/:id/chat", cfg.ChatHandler.Send)
		api.GET("/projects/:id/chat", cfg.ChatHandler.History)

		// Images
		api.GET("/projects/:id/images", cfg.ImageHandler.List)
		api.POST("/projects/:id/images", cfg.ImageHandler.Generate)
		api.GET("/projects/:id/images/:imageId", cfg.ImageHandler.Get)
		api.POST("/projects/:id/images/:imageId/refine", cfg.ImageHandler.Refine)
		api.POST("/projects/:id/images/:imageId/upscale", cfg.ImageHandler.Upscale)

		// Carousel
		api.GET("/projects/:id/carousel", cfg.CarouselHandler.Get)
		api.POST("/projects/:id/carousel/generate", cfg.CarouselHandler.Generate)
		api.PUT("/projects/:id/carousel/slides/:index", cfg.CarouselHandler.EditSlide)
		api.POST("/projects/:id/carousel/template", cfg.CarouselHandler.ImportTemplate)
		api.PUT("/projects/:id/carousel/template/slides/:slideId/zones", cfg.CarouselHandler.UpdateZones)
		api.GET("/projects/:id/carousel/export", cfg.CarouselHandler.Export)
	}

	return router
}
