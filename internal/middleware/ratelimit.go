package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Counter is the sliding-window hit counter; the Redis cache client
// satisfies it.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateLimiter struct {
	counter Counter
	limit   int64
	window  time.Duration
}

func NewRateLimiter(counter Counter, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{counter: counter, limit: limit, window: window}
}

// ByKey limits requests per key in the configured window. A counter
// failure lets the request through; limiting is protection, not policy.
func (r *RateLimiter) ByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := r.counter.Hit(c.Context(), keyFunc(c), r.window)
		if err != nil {
			return c.Next()
		}
		if count > r.limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
