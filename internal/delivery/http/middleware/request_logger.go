package middleware

import (
	"time"

	"go-portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request through the process slog logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", GetRequestID(c),
		}
		if status >= 500 {
			logger.Log.Error("HTTP request", attrs...)
			return
		}
		logger.Log.Info("HTTP request", attrs...)
	}
}
