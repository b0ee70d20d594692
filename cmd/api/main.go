package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rudrodip/whatyouwant/internal/api"
	"github.com/rudrodip/whatyouwant/internal/api/middleware"
	"github.com/rudrodip/whatyouwant/internal/compositor"
	"github.com/rudrodip/whatyouwant/internal/config"
	"github.com/rudrodip/whatyouwant/internal/logger"
	"github.com/rudrodip/whatyouwant/internal/repository"
	"github.com/rudrodip/whatyouwant/internal/service"
	"github.com/rudrodip/whatyouwant/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}

	telemetryRepo := repository.NewTelemetryRepository(db)

	var sink *service.TelemetrySink
	if cfg.Telemetry.Enabled {
		sink = service.NewTelemetrySink(telemetryRepo, cfg.Telemetry.QueueSize, appLogger)
	}

	// Initialize asset storage (local disk or S3/R2)
	assets, err := storage.NewAssetStore(&cfg.Assets)
	if err != nil {
		appLogger.Fatalf("Failed to initialize asset store: %v", err)
	}

	// Initialize the rendering pipeline
	renderer, err := compositor.New(assets, &compositor.Config{
		BaseImage: cfg.Assets.BaseImage,
		FontPath:  cfg.Assets.FontPath,
	})
	if err != nil {
		appLogger.Fatalf("Failed to initialize compositor: %v", err)
	}

	// Initialize services
	classifier := service.NewClassifierService(&service.ClassifierConfig{
		Model:    cfg.Classifier.Model,
		APIKey:   cfg.Classifier.APIKey,
		BaseURL:  cfg.Classifier.BaseURL,
		Taxonomy: cfg.Classifier.Taxonomy,
	})

	imageSearch := service.NewImageSearchService(&service.ImageSearchConfig{
		AccessKey: cfg.Unsplash.AccessKey,
		BaseURL:   cfg.Unsplash.BaseURL,
		CacheTTL:  cfg.Unsplash.CacheTTL,
	})

	resolver := service.NewResolver(imageSearch)

	memeService := service.NewMemeService(
		classifier,
		resolver,
		renderer,
		sink,
		&service.MemeConfig{CacheTTL: cfg.Classifier.CacheTTL},
		appLogger,
	)

	// Setup router
	router := api.SetupRouter(&api.RouterConfig{
		Memes:        memeService,
		Stats:        telemetryRepo,
		Assets:       assets,
		DefaultImage: cfg.Assets.DefaultImage,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Mode: cfg.Server.Mode,
		Log:  appLogger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		appLogger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	// Drain queued telemetry before exit
	if sink != nil {
		if err := sink.Close(shutdownCtx); err != nil {
			appLogger.Warnf("Telemetry drain incomplete: %v", err)
		}
	}

	appLogger.Info("Server exited")
}
