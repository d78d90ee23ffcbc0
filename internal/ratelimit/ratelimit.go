package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// allowScript refills the bucket for the elapsed time and takes one token
// when one is available. Returns 1 when allowed, 0 otherwise.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return allowed
`)

// remainingScript reports the tokens a caller could spend right now without
// consuming any.
var remainingScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
	end

	return tokens
`)

// TokenBucket is a Redis backed token bucket shared by every replica of the
// service. Buckets are keyed by client and action.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64         // Maximum number of tokens
	refill   int64         // Tokens added per window
	window   time.Duration // Refill window
	now      func() time.Time
}

// NewTokenBucket creates a limiter that holds capacity tokens and refills
// refillRate tokens per minute.
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
		now:      time.Now,
	}
}

// Capacity is the bucket size, reported in X-RateLimit-Limit.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// Window is the refill period, reported in X-RateLimit-Reset.
func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

// Allow takes one token for clientID and action. It returns false when the
// bucket is empty.
func (tb *TokenBucket) Allow(ctx context.Context, clientID, action string) (bool, error) {
	result, err := allowScript.Run(ctx, tb.redis, []string{key(clientID, action)}, tb.args()...).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return result == 1, nil
}

// GetRemaining returns the tokens left for clientID and action.
func (tb *TokenBucket) GetRemaining(ctx context.Context, clientID, action string) (int64, error) {
	remaining, err := remainingScript.Run(ctx, tb.redis, []string{key(clientID, action)}, tb.args()...).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	return remaining, nil
}

// Reset clears the bucket for clientID and action.
func (tb *TokenBucket) Reset(ctx context.Context, clientID, action string) error {
	return tb.redis.Del(ctx, key(clientID, action)).Err()
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), tb.now().Unix()}
}

func key(clientID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", clientID, action)
}
