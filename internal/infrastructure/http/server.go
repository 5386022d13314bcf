package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/brightcrm/customer-service/internal/adapter/handler/http"
	"github.com/brightcrm/customer-service/internal/config"
	"github.com/brightcrm/customer-service/internal/usecase"
)

// bodyLimit matches the in-memory multipart buffering ceiling: uploads above
// this are rejected before any handler or upload runs.
const bodyLimit = "15M"

type Server struct {
	config          *config.Config
	logger          *zap.Logger
	echo            *echo.Echo
	customerService *usecase.CustomerService
}

func NewServer(cfg *config.Config, logger *zap.Logger, customerService *usecase.CustomerService) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(requestLogger(logger))

	return &Server{
		config:          cfg,
		logger:          logger,
		echo:            e,
		customerService: customerService,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	customerHandler := handlers.NewCustomerHandler(s.logger, s.customerService)

	api := s.echo.Group("/api")
	api.GET("/customers", customerHandler.ListCustomers)
	api.POST("/customers", customerHandler.CreateCustomer)
	api.PUT("/customers/:id", customerHandler.UpdateCustomer)
	api.DELETE("/customers/:id", customerHandler.DeleteCustomer)
}

// requestLogger emits one structured log entry per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
