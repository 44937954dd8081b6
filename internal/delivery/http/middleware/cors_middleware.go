package middleware

import (
	"net/http"
	"strings"

	"go-portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// devOrigins are accepted only outside release mode.
var devOrigins = map[string]bool{
	"http://localhost:3000": true,
	"http://127.0.0.1:3000": true,
	"http://localhost:3001": true,
}

// CORSMiddleware adds CORS headers for the portfolio frontend.
//
// SECURITY: only origins in allowedOrigins get CORS headers; localhost is
// additionally accepted when not in production.
func CORSMiddleware(allowedOrigins []string, isProduction bool) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		isAllowed := origin == "" || allowed[origin] || (!isProduction && devOrigins[origin])

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
			c.Header("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			if isAllowed {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventOriginRejected,
				IP:        c.ClientIP(),
				UserAgent: c.GetHeader("User-Agent"),
				Details:   map[string]interface{}{"origin": origin},
			})
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
