package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickbill-app/quickbill-backend/config"
	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/logger"
	"github.com/quickbill-app/quickbill-backend/services"
)

// RateLimiter throttles requests per authenticated user, falling back to the
// client IP before authentication ran. Redis outages fail open so the API
// stays available without its limiter.
func RateLimiter(limiter services.RateLimiterInterface, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		key := c.GetString(string(UserIDKey))
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, cfg.RequestsPerMinute, window)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.RequestsPerMinute))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", int(retryAfter.Seconds())))
			c.Abort()
			return
		}

		c.Next()
	}
}
