package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/aria/reminders/docs"
	httpHandlers "github.com/aria/reminders/internal/adapters/http"
	"github.com/aria/reminders/internal/application/services"
	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/database"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/infrastructure/metrics"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	metrics   *metrics.Collector
	rateStore RateLimitStore
}

// RateLimitStore is a shared rate limiter backend with a health probe
type RateLimitStore interface {
	middleware.RateLimiterStore
	Ping() error
	GetConnectionInfo() map[string]interface{}
}

// Dependencies are the wired components the server routes to
type Dependencies struct {
	Reminders *services.ReminderService
	Auth      *services.AuthService
	Metrics   *metrics.Collector
	// DB is nil when reminders live in the memory store.
	DB *database.DB
	// RateLimitStore is optional; limits stay in process without it.
	RateLimitStore RateLimitStore
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies, appLogger *logger.Logger) (*Server, error) {
	if deps.Reminders == nil || deps.Auth == nil {
		return nil, errors.New("server requires reminder and auth services")
	}

	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.IsDevelopment()
	e.HTTPErrorHandler = customErrorHandler(appLogger, e.Debug)

	reminderHandler := httpHandlers.NewReminderHandler(deps.Reminders, appLogger)
	timeHandler := httpHandlers.NewTimeHandler(deps.Reminders.Resolver(), appLogger)

	server := &Server{
		echo:      e,
		config:    cfg,
		logger:    appLogger,
		db:        deps.DB,
		metrics:   deps.Metrics,
		rateStore: deps.RateLimitStore,
	}

	server.setupMiddleware()

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		server.setupMetrics()
	}

	server.setupRoutes(reminderHandler, timeHandler, deps.Auth)

	return server, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"request_id", values.RequestID,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete},
	}))

	if s.config.Security.RateLimitRequests > 0 && s.config.Security.RateLimitWindow > 0 {
		s.echo.Use(s.rateLimiter())
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: s.config.Server.RequestTimeout,
	}))
}

// rateLimiter allows RateLimitRequests per RateLimitWindow for each client IP
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	security := s.config.Security

	var store middleware.RateLimiterStore = middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(security.RateLimitWindow / time.Duration(security.RateLimitRequests)),
			Burst:     security.RateLimitRequests,
			ExpiresIn: security.RateLimitWindow,
		},
	)
	if s.rateStore != nil {
		store = s.rateStore
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
		},
		Store: store,
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			s.logger.LogSecurityEvent("rate_limited", "", identifier, nil)
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	})
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(reminderHandler *httpHandlers.ReminderHandler, timeHandler *httpHandlers.TimeHandler, authService *services.AuthService) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	v1 := s.echo.Group("/api/v1")

	timeGroup := v1.Group("/time")
	timeGroup.GET("/context", timeHandler.GetContext)
	timeGroup.POST("/parse", timeHandler.ParsePhrase)

	reminderGroup := v1.Group("/reminders", s.authMiddleware(authService))
	reminderGroup.POST("", reminderHandler.CreateReminder)
	reminderGroup.GET("/upcoming", reminderHandler.ListUpcoming)
	reminderGroup.GET("/overdue", reminderHandler.ListOverdue)
	reminderGroup.GET("/summary", reminderHandler.Summary)
	reminderGroup.GET("/proactive", reminderHandler.Proactive)
	reminderGroup.GET("/:id", reminderHandler.GetReminder)
	reminderGroup.POST("/:id/complete", reminderHandler.CompleteReminder)
	reminderGroup.POST("/:id/snooze", reminderHandler.SnoozeReminder)
	reminderGroup.DELETE("/:id", reminderHandler.DeleteReminder)
}

// setupMetrics installs the request metrics middleware and the scrape endpoint
func (s *Server) setupMetrics() {
	s.echo.Use(s.metricsMiddleware())

	metricsHandler := promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if s.db == nil {
		checks["store"] = map[string]interface{}{
			"status": "ok",
			"driver": config.StoreDriverMemory,
		}
	} else if err := s.db.HealthCheck(c.Request().Context()); err != nil {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"driver": config.StoreDriverPostgres,
			"error":  err.Error(),
		}
	} else {
		store := map[string]interface{}{
			"status": "ok",
			"driver": config.StoreDriverPostgres,
			"stats":  s.db.PoolStats(),
		}
		if schema, err := s.db.SchemaStatus(c.Request().Context()); err != nil {
			store["schema_error"] = err.Error()
		} else {
			store["schema"] = schema
		}
		checks["store"] = store
	}

	if s.rateStore != nil {
		if err := s.rateStore.Ping(); err != nil {
			status = "error"
			checks["rate_limiter"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["rate_limiter"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.rateStore.GetConnectionInfo(),
			}
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler renders echo, validation and domain errors as JSON.
// Internal error text is only exposed when debug is set.
func customErrorHandler(logger *logger.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		default:
			code = httpHandlers.StatusForError(err)
			switch {
			case code < http.StatusInternalServerError:
				msg = map[string]string{"message": err.Error()}
			case debug:
				msg = map[string]string{"message": http.StatusText(code), "error": err.Error()}
			default:
				msg = map[string]string{"message": http.StatusText(code)}
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
