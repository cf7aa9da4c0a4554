package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jpfieber/jots-food-tracker/config"
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
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/health", handler.HealthCheck)

		foods := v1.Group("/foods")
		{
			foods.GET("", handler.SearchFoods)
			foods.GET("/facts", handler.FoodFacts)
			foods.POST("", handler.CreateFood)
			foods.POST("/import", handler.ImportFood)
		}

		v1.GET("/recipes/facts", handler.RecipeFacts)
		v1.POST("/entries", handler.LogEntry)
		v1.GET("/journal/:date/summary", handler.DaySummary)
		v1.GET("/meals/suggest", handler.SuggestMeal)
	}

	return router
}
