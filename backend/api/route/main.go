package route

import (
	"file-vault/backend/api/handler"
	"file-vault/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine, files *handler.FileHandler) {
	route.Use(middleware.RequestID())
	route.Use(middleware.Metrics())
	route.Use(middleware.CORS())

	route.GET("/metrics", middleware.MetricsHandler())
	SetApiRouter(route, files)
}
