package middleware

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/metrics"
)

// RequestLogger logs each request and feeds the HTTP request counter.
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status

			if m != nil {
				m.Requests.WithLabelValues(req.Method, strconv.Itoa(status)).Inc()
			}

			// Health and metrics probes only add noise
			if req.URL.Path == "/health" || req.URL.Path == "/metrics" ||
				strings.HasPrefix(req.URL.Path, "/uploads/") {
				return nil
			}

			logger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)
			return nil
		}
	}
}
