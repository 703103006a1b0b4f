package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// RateLimit 令牌桶限流（进程内，所有客户端共享一个桶）
// 用于下单接口：请求被拒绝时不会占用数据库连接和行锁
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			response.Error(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
