package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the generic failure response and logs the stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Log.Error("panic recovered",
			"error", recovered,
			"stack", string(debug.Stack()),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", GetRequestID(c),
		)
		security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventServerError,
			IP:        c.ClientIP(),
			RequestID: GetRequestID(c),
			Details: map[string]interface{}{
				"panic":    fmt.Sprint(recovered),
				"endpoint": c.Request.URL.Path,
			},
		})

		response.Error(c, http.StatusInternalServerError, domain.MsgDeliveryFailed)
		c.Abort()
	})
}
