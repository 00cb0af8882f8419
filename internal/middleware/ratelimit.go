package middleware

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beside-app/beside-backend/pkg/clientip"
)

const (
	rateLimitWindow      = 120 * time.Second
	rateLimitMaxRequests = 25
	rateLimitKeyPrefix   = "ratelimit:"
	blockedIPKeyPrefix   = "blocked_ip:"
	blockedIPDuration    = 24 * time.Hour
)

// RedisRateLimit counts requests per IP in a sliding window and blocks an IP
// for 24 hours once it exceeds the window limit. Fails open when Redis is
// unavailable.
func RedisRateLimit(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientip.RealClientIP(r)

			blocked, err := client.Exists(ctx, blockedIPKeyPrefix+ip).Result()
			if err == nil && blocked > 0 {
				tooManyRequests(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
				return
			}

			key := rateLimitKeyPrefix + ip
			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, rateLimitWindow)
			}

			if count > rateLimitMaxRequests {
				client.Set(ctx, blockedIPKeyPrefix+ip, "1", blockedIPDuration)
				tooManyRequests(w, "Rate limit exceeded. Your IP has been blocked for 24 hours.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"status":"fail","message":"` + message + `"}`))
}
