package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speshway-platform/internal/auth"
	"speshway-platform/internal/blob"
	"speshway-platform/internal/config"
	"speshway-platform/internal/database"
	"speshway-platform/internal/logger"
	"speshway-platform/internal/telemetry"
	"speshway-platform/middleware"
	"speshway-platform/routes"
	"speshway-platform/services"

	"github.com/gin-gonic/gin"
)

const serviceName = "speshway-platform"

// formSlack covers the text fields sent with an image upload.
const formSlack = 2 << 20

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.InitLogger(cfg)

	if cfg.OTelEnabled {
		shutdown, err := telemetry.InitTracer(serviceName, cfg.OTelEndpoint, cfg.GinMode)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	tokens, err := auth.NewTokenManager(cfg.AccessSecret, rdb)
	if err != nil {
		log.Fatal("Failed to initialise tokens:", err)
	}

	store, err := blob.New(context.Background(), cfg.Blob)
	if err != nil {
		log.Fatal("Failed to initialise blob store:", err)
	}
	store = blob.NewGuarded(store, metrics)
	logger.Info("Blob store ready", "driver", store.Driver())

	// Repositories and services
	users := database.NewUserRepository(db, metrics)
	sentenceSvc := services.NewSentenceService(database.NewSentenceRepository(db, metrics))
	clientSvc := services.NewClientService(database.NewClientRepository(db, metrics))
	bannerSvc := services.NewHomeBannerService(database.NewHomeBannerRepository(db, metrics), store)
	imageSvc := services.NewHomeImageService(database.NewHomeImageRepository(db, metrics), users, store)
	exportSvc := services.NewExportService(sentenceSvc)
	uploads := services.NewUploadService(store, cfg.Blob.Folder)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware(serviceName))
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.RequestSizeLimit(max(cfg.BannerMaxUpload, cfg.HomeImageMaxUpload) + formSlack))
	router.Use(middleware.AuditMiddleware(metrics))

	if store.Driver() == "filesystem" {
		router.Static("/uploads", cfg.Blob.BasePath)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokens)
	roleMiddleware := middleware.NewRoleMiddleware()
	sentenceLimit := middleware.RateLimitMiddleware(rdb, cfg.RateLimitReqs, time.Duration(cfg.RateLimitWindow)*time.Second)

	// Setup routes
	api := router.Group("/api")
	routes.SetupHealthRoutes(api)
	routes.SetupClientRoutes(api, clientSvc, authMiddleware, roleMiddleware)
	routes.SetupHomeBannerRoutes(api, bannerSvc, uploads, cfg.BannerMaxUpload, authMiddleware, roleMiddleware)
	routes.SetupHomeImageRoutes(api, imageSvc, uploads, cfg.HomeImageMaxUpload, authMiddleware, roleMiddleware)
	routes.SetupSentenceRoutes(api, sentenceSvc, exportSvc, authMiddleware, roleMiddleware, sentenceLimit)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
