package router

import (
	"github.com/gin-gonic/gin"

	"dociq/internal/handler"
	"dociq/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	documentH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health check
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.POST("/upload", documentH.Upload)
	documents.GET("", documentH.List)
	documents.GET("/:id/status", documentH.GetStatus)
	documents.GET("/:id/result", documentH.GetResult)

	v1.GET("/document-types", documentH.ListTypes)

	return r
}
