package middleware

import (
	"time"

	"ledger-api/internal/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestContextMiddleware assigns each request a UUID and logs its
// lifecycle.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		logging.Debug("Request started", map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})

		c.Next()

		logging.Debug("Request finished", map[string]interface{}{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
	}
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
