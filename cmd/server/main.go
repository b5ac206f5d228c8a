package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"busline/internal/app"
	"busline/internal/config"
	"busline/internal/handler"
	internalRedis "busline/internal/redis"
	"busline/internal/repository/postgres"
	"busline/internal/service"
)

func main() {
	// Load .env if present, then configuration from environment.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	routeRepo := postgres.NewRouteRepository(db)
	busRepo := postgres.NewBusRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatCommitmentRepository(db)
	promoRepo := postgres.NewPromotionRepository(db)
	txManager := postgres.NewTransactionManager(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	ticketService := service.NewTicketService(notificationService)
	ledger := service.NewSeatLedger(seatRepo, lockStore, cacheStore)
	promotionService := service.NewPromotionService(promoRepo, cfg.Promotions.EnforceUsageLimit)
	availabilityService := service.NewAvailabilityService(tripRepo, ledger, cacheStore)
	tripService := service.NewTripService(tripRepo, routeRepo, busRepo)
	bookingService := service.NewBookingService(
		txManager,
		bookingRepo,
		seatRepo,
		tripRepo,
		ledger,
		promotionService,
		ticketService,
		notificationService,
		cfg.Booking.ReferencePrefix,
	)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService, availabilityService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	promotionHandler := handler.NewPromotionHandler(promotionService)
	catalogHandler := handler.NewCatalogHandler(tripService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:      tripHandler,
		BookingHandler:   bookingHandler,
		PromotionHandler: promotionHandler,
		CatalogHandler:   catalogHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
