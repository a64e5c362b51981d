package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karripar/va-backend-sub000/internal/logger"
	"github.com/karripar/va-backend-sub000/internal/utils"
)

type RateLimitConfig struct {
	Client     *redis.Client
	Requests   int           // allowed requests per window per client IP
	Window     time.Duration // fixed window length
	Prefix     string        // key prefix, one per protected route group
	TrustProxy bool          // resolve IP from proxy headers when true
	Logger     logger.Logger
}

// RateLimit enforces a fixed window per client IP, counted in Redis so
// every replica shares the same budget. Redis being down fails open: an
// endpoint that stops answering is worse than one that is briefly
// unthrottled.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}
	limitStr := strconv.Itoa(cfg.Requests)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := utils.ClientIP(r, cfg.TrustProxy)
			key := cfg.Prefix + ":" + ip

			pipe := cfg.Client.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, cfg.Window)
			if _, err := pipe.Exec(ctx); err != nil {
				cfg.Logger.Warn("rate limit check failed, allowing request",
					logger.String("ip", ip),
					logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			if count > int64(cfg.Requests) {
				retry := int(cfg.Window.Seconds())
				if ttl, err := cfg.Client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = int(ttl.Seconds()) + 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("X-RateLimit-Limit", limitStr)
				w.Header().Set("X-RateLimit-Remaining", "0")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			remaining := cfg.Requests - int(count)
			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}
