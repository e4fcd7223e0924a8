// Package v1 implements routing paths. Each services in own file.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ailetic/entity"
	"ailetic/internal/telemetry/metric"
	"ailetic/pkg/logger"
)

const traceName = "http-v1"

// NewRouter -.
func NewRouter(handler *gin.Engine, l logger.Interface, uc entity.ComputeUsecase, m *metric.Metrics, basePath string) {
	// Options
	handler.Use(gin.Recovery())
	if m != nil {
		handler.Use(m.Middleware())
	}

	// Swagger
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	handler.GET("/swagger/*any", swaggerHandler)

	// K8s probe
	handler.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Prometheus metrics
	if m != nil {
		handler.GET("/metrics", gin.WrapH(m.Handler()))
	}

	handler.NoRoute(func(c *gin.Context) {
		errorResponse(c, http.StatusNotFound, entity.ErrRouteNotFound.Error())
	})

	// Routers
	h := handler.Group(basePath)
	{
		newComputeRoutes(h, uc, l)
	}
}
