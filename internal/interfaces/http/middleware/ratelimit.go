package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
)

// RateLimiter keeps one token bucket per key. A bucket holds burst tokens
// and refills one token every window/burst.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	interval time.Duration // one token is added per interval
	burst    int
	idle     time.Duration // buckets unused for this long are dropped
	now      func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows burst requests per window for each key
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients:  make(map[string]*client),
		interval: window / time.Duration(burst),
		burst:    burst,
		idle:     window * 2,
		now:      time.Now,
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evict(now)

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Every(rl.interval), rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Remaining returns the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		return rl.burst
	}
	return int(c.limiter.TokensAt(rl.now()))
}

// Burst is the number of requests a fresh key may make at once
func (rl *RateLimiter) Burst() int {
	return rl.burst
}

// RetryAfter is how long a limited key waits for its next token
func (rl *RateLimiter) RetryAfter() time.Duration {
	return rl.interval
}

// evict drops idle buckets. The caller holds mu.
func (rl *RateLimiter) evict(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

// RateLimitConfig configures RateLimitWithConfig
type RateLimitConfig struct {
	Limiter *RateLimiter
	// KeyFunc selects the bucket. Defaults to client IP plus request host.
	KeyFunc func(*gin.Context) string
	// OnLimited answers a rejected request. Defaults to a 429 JSON envelope.
	OnLimited gin.HandlerFunc
}

// ClientHostKey buckets requests per client IP and store host
func ClientHostKey(c *gin.Context) string {
	return c.Request.Host + "|" + c.ClientIP()
}

// RateLimitWithConfig returns a rate limiting middleware
func RateLimitWithConfig(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientHostKey
	}
	if cfg.OnLimited == nil {
		cfg.OnLimited = func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
		}
	}

	return func(c *gin.Context) {
		key := cfg.KeyFunc(c)

		if !cfg.Limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(cfg.Limiter.RetryAfter().Seconds()))))
			cfg.OnLimited(c)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limiter.Burst()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Limiter.Remaining(key)))

		c.Next()
	}
}
