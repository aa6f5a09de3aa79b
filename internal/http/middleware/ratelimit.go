package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"faultline/internal/config"
)

// RateLimit applies a fixed-window request limit per project key.
//
// It must run after ProjectAuth so the key local is populated; unauthenticated
// requests fall back to the client IP as the bucket key.
func RateLimit(cfg config.IngestConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Duration(cfg.RateLimitWindowSec) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if key, ok := c.Locals(ProjectKeyLocalKey).(string); ok && key != "" {
				return key
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
