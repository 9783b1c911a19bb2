package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/utils"
)

// LoginThrottle rejects login requests from IPs that used up their failed
// attempts. Failures are recorded by the login handler through
// rateLimiter.Allow.
func LoginThrottle(rateLimiter *InvalidAuthRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter.Blocked(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
			c.Abort()
			return
		}
		c.Next()
	}
}
