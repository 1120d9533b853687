package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window limiter.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc picks the bucket for a request, usually the client IP.
	KeyFunc func(*gin.Context) string
	// KeyPrefix namespaces the buckets of this limiter.
	KeyPrefix string
	// FailClosed rejects requests with 503 when Redis errors instead of
	// falling back to the in-process counter.
	FailClosed bool
}

// GlobalRateLimitConfig limits every route per client IP.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   clientIP,
	}
}

// AuthRateLimitConfig is the strict limit for register and login.
func AuthRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
		KeyFunc:    clientIP,
	}
}

// UploadRateLimitConfig limits document uploads per authenticated user.
func UploadRateLimitConfig(window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     10,
		Window:    window,
		KeyPrefix: "rl:upload:",
		KeyFunc: func(c *gin.Context) string {
			if id, ok := c.Get(string(domain.KeyUserID)); ok {
				return fmt.Sprint(id)
			}
			return c.ClientIP()
		},
	}
}

func clientIP(c *gin.Context) string { return c.ClientIP() }

// RateLimitMiddleware counts requests in Redis when the shared client is
// connected and in process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	memory := sharedMemoryCounter()

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		count, resetAt, err := redisHit(c.Request.Context(), key, config.Window)
		switch {
		case errors.Is(err, errNoRedis):
			count, resetAt = memory.hit(key, config.Window, time.Now())
		case err != nil && config.FailClosed:
			logger.Log.Error("Rate limit backend failed", "error", err, "ip", c.ClientIP(), "limiter", config.KeyPrefix)
			response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
			c.Abort()
			return
		case err != nil:
			logger.Log.Warn("Rate limit backend failed, using memory", "error", err, "limiter", config.KeyPrefix)
			count, resetAt = memory.hit(key, config.Window, time.Now())
		}

		remaining := max(config.Limit-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			c.Header("Retry-After", strconv.Itoa(max(int(time.Until(resetAt).Seconds()), 1)))
			logger.Log.Warn("Rate limit triggered",
				"ip", c.ClientIP(),
				"path", c.FullPath(),
				"limiter", config.KeyPrefix,
				"request_id", c.GetString(string(domain.KeyRequestID)),
			)
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ============================================================================
// Redis counter
// ============================================================================

var errNoRedis = errors.New("redis not configured")

// incrWithTTL increments KEYS[1], starts its expiry on the first hit and
// returns {count, ttl_seconds}.
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

func redisHit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	client := redis.Client()
	if client == nil {
		return 0, time.Time{}, errNoRedis
	}

	res, err := incrWithTTL.Run(ctx, client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	return int(res[0]), time.Now().Add(time.Duration(res[1]) * time.Second), nil
}

// ============================================================================
// In-memory counter
// ============================================================================

type bucket struct {
	count   int
	resetAt time.Time
}

type memoryCounter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

var (
	memCounter     *memoryCounter
	memCounterOnce sync.Once
)

// sharedMemoryCounter returns the process-wide fallback counter, starting its
// sweeper on first use.
func sharedMemoryCounter() *memoryCounter {
	memCounterOnce.Do(func() {
		memCounter = &memoryCounter{buckets: make(map[string]*bucket)}
		go memCounter.sweep(5 * time.Minute)
	})
	return memCounter
}

func (m *memoryCounter) hit(key string, d time.Duration, now time.Time) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.buckets[key]
	if !ok || now.After(w.resetAt) {
		w = &bucket{resetAt: now.Add(d)}
		m.buckets[key] = w
	}
	w.count++
	return w.count, w.resetAt
}

func (m *memoryCounter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		m.mu.Lock()
		for key, w := range m.buckets {
			if now.After(w.resetAt) {
				delete(m.buckets, key)
			}
		}
		m.mu.Unlock()
	}
}
