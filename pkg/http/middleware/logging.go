package middleware

import (
	"time"

	"MarketBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs each HTTP request with method, path, status and latency.
func RequestLogging(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			if l != nil {
				l.Debug("http request",
					logger.String("method", c.Request().Method),
					logger.String("path", c.Request().RequestURI),
					logger.Int("status", c.Response().Status),
					logger.Duration("latency_ms", time.Since(start)),
				)
			}
			return err
		}
	}
}
