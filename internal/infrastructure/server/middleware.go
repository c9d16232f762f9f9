package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/aria/reminders/internal/adapters/http"
	"github.com/aria/reminders/internal/application/services"
)

// authMiddleware validates bearer tokens and stores the owner in the context
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			owner, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(httpHandlers.ContextUserKey, owner)

			return next(c)
		}
	}
}

// metricsMiddleware records request counts and latencies by route
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// resolve the final status before recording it
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			s.metrics.RequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			).Inc()

			s.metrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				path,
			).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
