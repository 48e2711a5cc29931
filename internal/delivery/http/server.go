package http

import (
	"context"
	"time"

	"github.com/counter-map/internal/config"
	"github.com/counter-map/internal/delivery/http/handler"
	"github.com/counter-map/internal/delivery/http/mappage"
	"github.com/counter-map/internal/delivery/http/middleware"
	"github.com/counter-map/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server is the Fiber HTTP server.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	mapUC *usecase.MapUseCase

	// Handlers
	counterHandler   *handler.CounterHandler
	searchHandler    *handler.SearchHandler
	selectionHandler *handler.SelectionHandler
	mapHandler       *handler.MapHandler
	exportHandler    *handler.ExportHandler
}

// NewServer builds the server with middlewares and routes registered.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mapUC *usecase.MapUseCase,
	counterHandler *handler.CounterHandler,
	searchHandler *handler.SearchHandler,
	selectionHandler *handler.SelectionHandler,
	mapHandler *handler.MapHandler,
	exportHandler *handler.ExportHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Counter Map Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		mapUC:            mapUC,
		counterHandler:   counterHandler,
		searchHandler:    searchHandler,
		selectionHandler: selectionHandler,
		mapHandler:       mapHandler,
		exportHandler:    exportHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Interactive map page
	s.app.Get("/", s.renderMapPage)
	s.app.Get("/map", s.renderMapPage)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Counter routes
	api.Get("/counters", s.counterHandler.List)
	api.Get("/counters/:id", s.counterHandler.Get)
	api.Post("/counters/reload", s.counterHandler.Reload)

	// Search routes
	api.Get("/search", s.searchHandler.Search)
	api.Post("/search/session/input", s.searchHandler.SessionInput)
	api.Get("/search/session", s.searchHandler.SessionState)
	api.Post("/search/session/key", s.searchHandler.SessionKey)
	api.Post("/geocode", s.searchHandler.Geocode)

	// Map routes
	api.Get("/map/markers", s.mapHandler.Markers)
	api.Get("/map/markers.geojson", s.mapHandler.MarkersGeoJSON)
	api.Get("/map/camera", s.mapHandler.Camera)
	api.Post("/map/fly-to", s.mapHandler.FlyTo)
	api.Get("/map/dashboard-link/:id", s.mapHandler.DashboardLink)

	// Selection routes
	api.Post("/selection", s.selectionHandler.Select)
	api.Get("/selection", s.selectionHandler.State)
	api.Delete("/selection", s.selectionHandler.Clear)
	api.Post("/selection/outside-click", s.selectionHandler.OutsideClick)

	// Export routes
	api.Get("/export/metadata", s.exportHandler.Metadata)
	api.Get("/export/raw", s.exportHandler.Raw)
	api.Get("/export/raw/:id", s.exportHandler.RawByID)

	// Mapbox config endpoint for the map page
	api.Get("/config/mapbox", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"token": s.config.Mapbox.AccessToken,
		})
	})
}

func (s *Server) renderMapPage(c *fiber.Ctx) error {
	markers := s.mapUC.Markers()
	camera := s.mapUC.Camera()
	page, err := mappage.Render(
		"NC Pedestrian and Bicycle Counters",
		s.config.Mapbox.AccessToken,
		markers,
		camera.Latitude, camera.Longitude, camera.Zoom,
	)
	if err != nil {
		s.logger.Error("Failed to render map page", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(page)
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
