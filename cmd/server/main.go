package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evermart/catalog-backend/config"
	"github.com/evermart/catalog-backend/internal/app/controller"
	"github.com/evermart/catalog-backend/internal/app/repository"
	"github.com/evermart/catalog-backend/internal/app/service"
	"github.com/evermart/catalog-backend/internal/db"
	"github.com/evermart/catalog-backend/internal/router"
	"github.com/evermart/catalog-backend/internal/scheduler"
	"github.com/evermart/catalog-backend/pkg/cache"
	"github.com/evermart/catalog-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting EVERMART Catalog Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it the bestseller ranking is computed per
	// request instead of served from cache.
	if err := cache.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, bestseller caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	settingsRepo := repository.NewSettingsRepository(db.GetDB())
	attributeRepo := repository.NewAttributeRepository(db.GetDB())

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo)
	bestsellerService := service.NewBestsellerService(orderRepo, productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(
		productRepo,
		attributeRepo,
		categoryService,
		bestsellerService,
		settingsService,
		cfg.Catalog.DefaultPageSize,
	)

	// Initialize controllers
	catalogController := controller.NewCatalogController(catalogService)
	settingsController := controller.NewSettingsController(settingsService)

	// Start the bestseller refresh scheduler
	bestsellerScheduler := scheduler.NewBestsellerScheduler(bestsellerService, cfg.Catalog.RefreshSchedule)
	if err := bestsellerScheduler.Start(); err != nil {
		logger.Warn("Bestseller scheduler failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer bestsellerScheduler.Stop()

	// Setup router
	r := router.NewRouter(catalogController, settingsController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
