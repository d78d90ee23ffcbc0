package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/expressions-service/internal/ratelimit"
	"github.com/princekumarofficial/expressions-service/internal/utils/response"
)

// Rate limited actions
const (
	ActionUpload = "upload"
	ActionDelete = "delete"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

func NewRateLimitConfig(redisClient *redis.Client) *RateLimitConfig {
	config := &RateLimitConfig{
		limiters: make(map[string]*ratelimit.TokenBucket),
	}

	// POST /upload: 20/min per client
	config.limiters[ActionUpload] = ratelimit.NewTokenBucket(redisClient, 20, 20)

	// DELETE /{id}: 60/min per client
	config.limiters[ActionDelete] = ratelimit.NewTokenBucket(redisClient, 60, 60)

	return config
}

// RateLimitMiddleware limits action per client. Clients are identified by the
// authenticated user id when one is on the context, else by remote IP.
func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			clientID := clientIdentifier(r)

			allowed, err := limiter.Allow(r.Context(), clientID, action)
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
					fmt.Errorf("rate limit check failed: %w", err)))
				return
			}

			remaining, _ := limiter.GetRemaining(r.Context(), clientID, action)

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Capacity(), 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(limiter.Window().Seconds())))

			if !allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with rate limiting for a specific action
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.Handler) http.Handler {
	return rlc.RateLimitMiddleware(action)(handler)
}

func clientIdentifier(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok && userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
