package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-watchlist/internal/utils"
	"golang.org/x/time/rate"
)

// NewLimiter perSecond <= 0 时不限流
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RateLimit 限流中间件，超出返回 429
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.Error(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
