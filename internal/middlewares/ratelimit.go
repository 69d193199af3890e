package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/pkg/ratelimit"
)

// RateLimitMiddleware 按客户端 IP 限流，窗口一分钟。
// limiter 为 nil 时（未配置 Redis）直接放行。
func RateLimitMiddleware(limiter ratelimit.Limiter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP(), perMinute, time.Minute)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
