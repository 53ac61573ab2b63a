package middleware

import (
	"file-vault/backend/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, common.TokenHeader, RequestIDHeader)
	config.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(config)
}
