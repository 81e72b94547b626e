package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/config"
	"github.com/sangkips/optica-api/internal/infrastructure/cache"
	"github.com/sangkips/optica-api/internal/infrastructure/database"
	"github.com/sangkips/optica-api/internal/infrastructure/repository"
	"github.com/sangkips/optica-api/internal/presentation/http/handler"
	"github.com/sangkips/optica-api/internal/presentation/http/middleware"
	"github.com/sangkips/optica-api/internal/presentation/http/routes"
	"github.com/sangkips/optica-api/pkg/identifier"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis holds drafts and cached suggestions; without it both stay in process
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: %v; using in-memory drafts", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize repositories
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	orderPaymentRepo := repository.NewOrderPaymentRepository(db)
	contactLensRepo := repository.NewContactLensRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	draftRepo := repository.NewMemoryDraftRepository(cfg.Draft.TTL)
	if redisClient != nil {
		draftRepo = repository.NewRedisDraftRepository(redisClient, cfg.Draft.TTL)
	}

	suggestionCache := cache.NewSuggestionCache(redisClient, cfg.Search.CacheTTL)
	gen := identifier.NewSystemGenerator()

	// Initialize services
	searchService := service.NewSearchService(prescriptionRepo, orderRepo, suggestionCache, cfg.Search.Limit)
	persistenceService := service.NewPersistenceService(prescriptionRepo, orderRepo, orderItemRepo, orderPaymentRepo, suggestionCache, gen)
	draftService := service.NewDraftService(draftRepo, searchService, persistenceService, gen)
	orderService := service.NewOrderService(orderRepo)
	contactLensService := service.NewContactLensService(contactLensRepo, gen, cfg.Search.Limit)

	// Initialize handlers
	handlers := &routes.Handlers{
		Draft:       handler.NewDraftHandler(draftService),
		Search:      handler.NewSearchHandler(searchService, cfg.Search.Debounce, cfg.CORS.AllowedOrigins),
		Order:       handler.NewOrderHandler(orderService),
		ContactLens: handler.NewContactLensHandler(contactLensService),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(&cfg.RateLimit))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Health: func(c *gin.Context) gin.H {
			dbStatus := "ok"
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				dbStatus = "unavailable"
			}
			redisStatus := "disabled"
			if redisClient != nil {
				redisStatus = "unavailable"
				if cache.IsHealthy(c.Request.Context(), redisClient) {
					redisStatus = "ok"
				}
			}
			return gin.H{"database": dbStatus, "redis": redisStatus}
		},
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
