package middleware

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoRateLimitStore = errors.New("rate limit store not configured")

// Quota is the state of one client's fixed window after a hit.
type Quota struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// rateLimitBypassed reports whether APP_ENV skips write limits. Unset counts
// as a local run.
func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit records a hit for id against resource and returns the
// remaining quota. The counter and its expiry are written in one transaction
// so a window can never be left without a TTL.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (Quota, error) {
	if rateLimitBypassed() {
		return Quota{Allowed: true, Remaining: limit, ResetIn: window}, nil
	}
	if rdb == nil {
		return Quota{}, errNoRateLimitStore
	}

	key := "rl:" + resource + ":" + id
	pipe := rdb.TxPipeline()
	hits := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Quota{}, err
	}

	n := int(hits.Val())
	reset := ttl.Val()
	if reset < 0 {
		reset = window
	}
	return Quota{
		Allowed:   n <= limit,
		Remaining: max(limit-n, 0),
		ResetIn:   reset,
	}, nil
}

// RateLimit limits requests per client IP to limit per window, failing open
// when Redis is unavailable.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy. Allowed
// responses carry X-RateLimit headers; rejected ones add Retry-After.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		quota, err := CheckRateLimit(c.UserContext(), rdb, resource, "ip:"+c.IP(), limit, window)
		if err != nil {
			RedisErrors.WithLabelValues("ratelimit").Inc()
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					"resource", resource, "error", err.Error())
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		if !quota.Allowed {
			RateLimitRejections.WithLabelValues(resource).Inc()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(quota.ResetIn.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		}
		return c.Next()
	}
}
