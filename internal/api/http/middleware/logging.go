package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/signpath/signpath-server/internal/logger"
)

// RequestLogger logs method, uri, status and latency of every request.
func RequestLogger(logger *logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			switch {
			case v.Error == nil:
				logger.Info("HTTP request completed", args...)
			case v.Status >= 500:
				logger.Error("HTTP request failed", append(args, "error", v.Error.Error())...)
			default:
				logger.Warn("HTTP request rejected", append(args, "error", v.Error.Error())...)
			}
			return nil
		},
	})
}

// SecurityHeaders adds security-related HTTP headers to all responses.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Cache-Control", "no-store")
			return next(c)
		}
	}
}
