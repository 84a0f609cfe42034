package http

import (
	"context"
	"time"

	"github.com/ecoleta-service/internal/config"
	"github.com/ecoleta-service/internal/delivery/http/handler"
	"github.com/ecoleta-service/internal/delivery/http/middleware"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	pointHandler    *handler.PointHandler
	localityHandler *handler.LocalityHandler
	healthHandler   *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	pointHandler *handler.PointHandler,
	localityHandler *handler.LocalityHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Ecoleta Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		pointHandler:    pointHandler,
		localityHandler: localityHandler,
		healthHandler:   healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Загруженные изображения и иконки категорий (только локальное хранилище)
	if s.config.Media.Backend == config.MediaBackendLocal {
		s.app.Static("/uploads", s.config.Media.UploadDir, fiber.Static{
			MaxAge: 86400,
		})
	}

	s.app.Get("/health", s.healthHandler.Health)

	// Point routes
	s.app.Post("/points", s.pointHandler.CreatePoint)
	s.app.Get("/points", s.pointHandler.ListPoints)
	s.app.Get("/points/:id", s.pointHandler.GetPoint)

	// Category routes
	s.app.Get("/categories", s.pointHandler.ListCategories)

	// Locality routes
	localities := s.app.Group("/localities")
	localities.Get("/states", s.localityHandler.GetStates)
	localities.Get("/states/:uf/cities", s.localityHandler.GetCities)
}

// App возвращает fiber приложение (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 маршрута, превышение BodyLimit, паники) в общем формате
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := errors.ErrInternalServer.Message

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		appCode := errors.CodeInternalServer
		switch {
		case code == fiber.StatusNotFound:
			appCode = errors.CodeNotFound
		case code < fiber.StatusInternalServerError:
			appCode = errors.CodeInvalidRequest
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New(appCode, message, code),
		})
	}
}
