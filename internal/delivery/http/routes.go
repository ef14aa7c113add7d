package http

import (
	"github.com/gin-gonic/gin"

	"github.com/prezzoscout/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/search", handler.Search)
		v1.GET("/search/status", handler.SearchStatus)
		v1.GET("/suggest", handler.Suggest)

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.ListFavorites)
			favorites.POST("/toggle", handler.ToggleFavorite)
			favorites.DELETE("", handler.DeleteFavorite)
		}

		v1.GET("/stores/logo", handler.StoreLogo)
	}

	return router
}
