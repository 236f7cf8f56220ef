package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Asset provenance endpoints (public read access)
		v1.GET("/assets/:id/history", handler.GetAssetHistory)
		v1.GET("/assets/:id/owner", handler.GetAssetOwner)

		// Cross-asset recent activity (public read access)
		v1.GET("/activity", handler.GetRecentActivity)

		// Cache invalidation after a locally-initiated transfer
		v1.POST("/assets/:id/invalidate", handler.InvalidateAsset)
	}
}
