package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docextract/internal/handler"
	"docextract/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// metricsHandler may be nil to leave /metrics unmounted.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	extractionH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/extractions", extractionH.Extract)
	v1.POST("/scores", extractionH.Score)

	return r
}
