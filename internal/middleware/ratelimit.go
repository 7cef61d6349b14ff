package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RateLimitConfig defines the limit for a route or group.
type RateLimitConfig struct {
	Max    int                      // requests allowed per window
	Window time.Duration            // window length
	KeyFn  func(c fiber.Ctx) string // key to limit on
}

type entry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is an in-memory fixed-window rate limiter.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	config  RateLimitConfig
	now     func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFn == nil {
		cfg.KeyFn = KeyByIP
	}
	rl := &RateLimiter{
		entries: make(map[string]*entry),
		config:  cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

// Handler enforces the limit and sets the X-RateLimit-* headers.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		allowed, remaining, resetAt := rl.take(rl.config.KeyFn(c))
		setRateLimitHeaders(c, rl.config.Max, remaining, resetAt)
		if allowed {
			return c.Next()
		}

		retryAfter := int(resetAt.Sub(rl.now()).Seconds()) + 1
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED",
			fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter))
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	allowed, _, _ := rl.take(key)
	return allowed
}

func (rl *RateLimiter) take(key string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(rl.config.Window)}
		rl.entries[key] = e
	}
	e.count++
	return e.count <= rl.config.Max, max(rl.config.Max-e.count, 0), e.windowEnd
}

// Close stops the cleanup loop.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, e := range rl.entries {
				if now.After(e.windowEnd) {
					delete(rl.entries, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// KeyByIP limits on the client IP.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// NewAPIRateLimiter allows 100 requests per minute per IP on the whole API.
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 100, Window: time.Minute, KeyFn: KeyByIP})
}

// NewSearchRateLimiter limits searches per IP per minute.
func NewSearchRateLimiter(perMin int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: perMin, Window: time.Minute, KeyFn: KeyByIP})
}

// NewAnalyzeRateLimiter limits analysis requests per IP per minute.
func NewAnalyzeRateLimiter(perMin int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: perMin, Window: time.Minute, KeyFn: KeyByIP})
}
