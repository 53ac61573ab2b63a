package route

import (
	"file-vault/backend/api/handler"
	"file-vault/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine, files *handler.FileHandler) {
	apiRouter := route.Group("/")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", handler.GetStatus)

		// Authenticated by the X-Token header inside each handler.
		fileRoute := apiRouter.Group("/files")
		{
			fileRoute.POST("", files.PostUpload)
			fileRoute.GET("", files.GetIndex)
			fileRoute.GET("/:id", files.GetShow)
		}
	}
}
