package http

import (
	"github.com/gin-gonic/gin"

	"github.com/matfinder/backend/config"
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
	if cfg.Server.RateLimitPerIP > 0 {
		router.Use(RateLimitMiddleware(cfg.Server.RateLimitPerIP))
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:slug", handler.GetProduct)
		}
		v1.GET("/brands", handler.ListBrands)
		v1.GET("/stats", handler.GetStats)
	}

	return router
}
