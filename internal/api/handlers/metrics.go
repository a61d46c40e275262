package handlers

import (
	"net/http"

	metrics "ledger-api/internal/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetMetrics returns the collected request metrics as JSON.
func GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.List())
}

// PrometheusMetrics serves the Prometheus exposition endpoint.
func PrometheusMetrics(c *gin.Context) {
	metrics.UpdateSystemMetrics()
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
