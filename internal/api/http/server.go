package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/api/http/handlers"
	"github.com/spec-kit/service-desk/internal/observability"
	"github.com/spec-kit/service-desk/internal/service"
)

// ServerConfig collects everything NewServer needs.
type ServerConfig struct {
	AppName        string
	Version        string
	RootMessage    string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	ServiceDesk    *service.ServiceDesk
	Database       handlers.Pinger
}

// NewServer assembles the fiber app with middlewares and routes.
func NewServer(cfg ServerConfig) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RootMessage, cfg.RequestTimeout)

	routes := RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.AppName, cfg.Version, cfg.Database),
		Tickets: handlers.NewTicketsHandler(cfg.ServiceDesk),
	}
	if cfg.Metrics != nil {
		routes.Metrics = cfg.Metrics.Handler()
	}
	RegisterRoutes(app, routes)
	return app
}
