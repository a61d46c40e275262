package routes

import (
	"ledger-api/internal/api/handlers"
	"ledger-api/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes with the container dependencies
func RegisterRoutes(router *gin.Engine, container handlers.HandlerDependencies) {
	router.Use(middleware.RequestContextMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.PrometheusMiddleware())

	// Ledger operations
	router.POST("/transactions", handlers.MakeProcessTransactionHandler(container))
	router.GET("/accounts", handlers.MakeListAccountsHandler(container))
	router.GET("/accounts/:id", handlers.MakeGetAccountHandler(container))

	// System endpoints
	router.GET("/metrics", handlers.GetMetrics)
	router.GET("/prometheus", handlers.PrometheusMetrics)
	router.GET("/events", handlers.MakeEventsHandler(container))
}
