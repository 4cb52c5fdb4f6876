package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients/woocommerce"
	"catalog-sync-service/internal/config"
	"catalog-sync-service/internal/handlers"
	"catalog-sync-service/internal/middleware"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/services"
	"catalog-sync-service/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Configure logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Connect to the document store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	docs := store.NewRedisStore(redisClient)

	// Initialize services
	clientOpts := cfg.ClientOptions()
	factory := func(creds models.StoreCredentials) services.StoreClient {
		return woocommerce.NewClient(creds.StoreURL, creds.ConsumerKey, creds.ConsumerSecret, clientOpts, logger)
	}
	syncService := services.NewSyncService(docs, factory, cfg, logger)
	catalogService := services.NewCatalogService(docs, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(redisClient)
	syncHandler := handlers.NewSyncHandler(syncService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	exportHandler := handlers.NewExportHandler(catalogService)

	// Setup router
	router := setupRouter(cfg, healthHandler, syncHandler, catalogHandler, exportHandler)

	// Start server
	logger.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Environment}).Info("Catalog Sync Service starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	syncHandler *handlers.SyncHandler,
	catalogHandler *handlers.CatalogHandler,
	exportHandler *handlers.ExportHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Security headers middleware
	router.Use(middleware.SecurityHeaders())

	// CORS middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Owner identity middleware
	router.Use(middleware.OwnerMiddleware(cfg.JWTSecret))

	// Health and metrics
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes - require owner identity
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireOwnerID())
	{
		sync := v1.Group("/sync")
		{
			sync.POST("", syncHandler.StartSync)
			sync.POST("/resync", syncHandler.Resync)
			sync.GET("/status", syncHandler.GetStatus)
		}

		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/export", exportHandler.ExportProducts)
			products.GET("/:id", catalogHandler.GetProduct)
		}

		v1.GET("/categories", catalogHandler.ListCategories)
		v1.GET("/analytics", catalogHandler.GetAnalytics)
		v1.GET("/metadata", catalogHandler.GetMetadata)
	}

	return router
}
