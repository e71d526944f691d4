package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/guaraci/paylink-gateway/internal/db"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the Redis-backed per-IP limiter.
type RateLimitConfig struct {
	Redis          *redis.Client
	Requests       int           // allowed requests per window
	Window         time.Duration // usually 1m
	KeyPrefix      string        // defaults to the shared db namespace
	RetryAfterHint bool          // set Retry-After header when limited
}

// RateLimitMiddleware applies a fixed-window request limit per client IP.
// Without Redis (dev) it is a pass-through; abuse protection comes back the
// moment an instance is configured.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = db.Key("rl", "ip") + ":"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Requests <= 0 || cfg.Redis == nil {
				return next(c)
			}

			// fixed-window key: paylink:rl:ip:{addr}:{window_start}
			now := time.Now()
			bucket := now.UnixNano() / int64(cfg.Window)
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(bucket, 10)

			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(c.Request().Context(), key)
			pipe.Expire(c.Request().Context(), key, cfg.Window*2)
			_, err := pipe.Exec(c.Request().Context())
			if err != nil {
				// limiter must not take the API down with it
				return next(c)
			}

			if cnt.Val() > int64(cfg.Requests) {
				if cfg.RetryAfterHint {
					remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
					if remain > 0 {
						c.Response().Header().Set("Retry-After", strconv.Itoa(int(remain.Round(time.Second)/time.Second)))
					}
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
