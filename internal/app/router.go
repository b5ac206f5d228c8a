package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"busline/internal/handler"
	"busline/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler      *handler.TripHandler
	BookingHandler   *handler.BookingHandler
	PromotionHandler *handler.PromotionHandler
	CatalogHandler   *handler.CatalogHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
	AllowedOrigins   []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip search and seat availability.
		trips := v1.Group("/trips")
		{
			trips.GET("/search", deps.TripHandler.Search)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.GET("/:id/seats", deps.TripHandler.SeatMap)
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.POST("/:id/status", deps.TripHandler.UpdateStatus)
		}

		// Booking lifecycle.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/confirm", deps.BookingHandler.Confirm)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			bookings.POST("/:id/refund", deps.BookingHandler.Refund)
		}

		// Promotions.
		promotions := v1.Group("/promotions")
		{
			promotions.POST("", deps.PromotionHandler.Create)
			promotions.GET("/:code/validate", deps.PromotionHandler.Validate)
		}

		// Catalog administration.
		v1.POST("/routes", deps.CatalogHandler.CreateRoute)
		v1.POST("/buses", deps.CatalogHandler.CreateBus)
	}

	return router
}
