package middleware

import (
	"strconv"
	"time"

	metrics "ledger-api/internal/pkg/telemetry"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware collects HTTP metrics in Prometheus format
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		method := c.Request.Method
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		metrics.HTTPDuration.WithLabelValues(method, endpoint, statusCode).Observe(duration.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	}
}
