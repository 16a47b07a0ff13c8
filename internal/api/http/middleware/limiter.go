package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/stgeorge_backend/config"
)

// NewLimiter returns a sliding-window limiter. Counters live in Redis when a
// client is given, otherwise in process memory.
func NewLimiter(rdb *redis.Client, cfg config.LimitConfig) fiber.Handler {
	lc := limiter.Config{
		Max:               cfg.Max,
		Expiration:        time.Duration(cfg.ExpirationSeconds) * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
	}
	if lc.Max <= 0 {
		lc.Max = 20
	}
	if lc.Expiration <= 0 {
		lc.Expiration = 30 * time.Second
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}
