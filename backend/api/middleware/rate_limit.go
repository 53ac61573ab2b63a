package middleware

import (
	"net/http"

	"file-vault/backend/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// GlobalAPIRateLimit shares one token bucket across all API requests.
func GlobalAPIRateLimit() gin.HandlerFunc {
	return RateLimit(rate.NewLimiter(rate.Limit(common.GlobalApiRateLimitRPS), common.GlobalApiRateLimitBurst))
}

func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			common.RespAbort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
