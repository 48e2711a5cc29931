package main

// @title Counter Map Service API
// @version 1.0.0
// @description Service behind the North Carolina pedestrian and bicycle counter map. Keeps the statewide counter list in memory, drives the map markers and camera, and serves search, selection and export operations.
// @description
// @description Main capabilities:
// @description - Counter store loaded from the upstream counts API, with optional Redis read-through cache
// @description - Incremental search over counter metadata with an address geocoding fallback
// @description - Single-selection state with marker highlighting and Superset dashboard deep links
// @description - Metadata export (JSON, CSV, XLSX) and a raw count ZIP archive per counter

// @contact.name API Support
// @contact.email support@itre.ncsu.edu

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/counter-map/docs"
	"github.com/counter-map/internal/config"
	httpDelivery "github.com/counter-map/internal/delivery/http"
	"github.com/counter-map/internal/delivery/http/handler"
	"github.com/counter-map/internal/domain/repository"
	"github.com/counter-map/internal/infrastructure/coast"
	"github.com/counter-map/internal/infrastructure/mapbox"
	"github.com/counter-map/internal/pkg/logger"
	"github.com/counter-map/internal/repository/cache"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
	"github.com/counter-map/internal/worker"
	"github.com/counter-map/internal/worker/refresh"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Counter Map Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("coast_api", cfg.Coast.BaseURL),
	)

	// 3. Connect to Redis (optional; without it the service runs uncached)
	var redisClient *cache.Redis
	var cacheRepo repository.CacheRepository
	if cfg.CacheEnabled() {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Health(ctx); err != nil {
			cancel()
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		cancel()

		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis connected")
	} else {
		log.Info("Redis not configured, caching disabled")
	}

	// 4. Initialize Repositories
	counterRepo := coast.NewClient(&cfg.Coast, log)
	geocodeRepo := mapbox.NewGeocoder(&cfg.Mapbox, log)
	store := memory.NewCounterStore()

	log.Info("Repositories initialized")

	// 5. Initialize Use Cases
	mapUC := usecase.NewMapUseCase(cfg.Dashboard.BaseURL, cfg.Search.TempMarkerTTL, log)

	counterUC := usecase.NewCounterUseCase(
		counterRepo,
		cacheRepo,
		store,
		mapUC,
		log,
		cfg.Cache.CountersCacheTTL,
	)

	searchUC := usecase.NewSearchUseCase(
		store,
		geocodeRepo,
		cacheRepo,
		counterUC,
		mapUC,
		log,
		cfg.Search.MinAddressLen,
		cfg.Cache.GeocodeCacheTTL,
	)

	selectionUC := usecase.NewSelectionUseCase(store, mapUC, log)

	exportUC := usecase.NewExportUseCase(
		counterRepo,
		cacheRepo,
		store,
		log,
		cfg.Cache.CountsCacheTTL,
	)

	// Export-in-flight status feeds the outside-click rules.
	selectionUC.BindExportStatus(exportUC.InFlight)

	// Enter on a search result either selects the counter or resolves
	// the query as an address.
	session := usecase.NewSearchSession(
		searchUC,
		cfg.Search.DebounceDelay,
		func(result dto.SearchResult) {
			switch result.Kind {
			case dto.ResultKindCounter:
				if _, err := selectionUC.Select(result.Counter.CounterID); err != nil {
					log.Warn("Failed to select search result", zap.Error(err))
				}
			case dto.ResultKindAddress:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if _, err := searchUC.Geocode(ctx, result.Query); err != nil {
					log.Warn("Address geocoding failed", zap.String("query", result.Query), zap.Error(err))
				}
			}
		},
		log,
	)

	log.Info("Use cases initialized")

	// 6. Startup counter fetch. A failure leaves the store empty; the
	// server starts anyway and a reload can recover later.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := counterUC.Load(loadCtx); err != nil {
		log.Error("Startup counter load failed, map starts empty", zap.Error(err))
	}
	loadCancel()

	// 7. Initialize HTTP Handlers
	counterHandler := handler.NewCounterHandler(counterUC, log)
	searchHandler := handler.NewSearchHandler(searchUC, session, log)
	selectionHandler := handler.NewSelectionHandler(selectionUC, log)
	mapHandler := handler.NewMapHandler(mapUC, log)
	exportHandler := handler.NewExportHandler(exportUC, selectionUC, log)

	log.Info("HTTP handlers initialized")

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		mapUC,
		counterHandler,
		searchHandler,
		selectionHandler,
		mapHandler,
		exportHandler,
	)

	log.Info("HTTP server initialized")

	// 9. Background refresh worker
	workerManager := worker.NewManager(log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Worker.Enabled {
		workerManager.Register(refresh.New(counterUC, cfg.Worker.RefreshInterval, log))
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	} else {
		log.Info("Background refresh worker disabled")
	}

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workerCancel()
	if err := workerManager.Stop(); err != nil {
		log.Error("Worker shutdown error", zap.Error(err))
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
