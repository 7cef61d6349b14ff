package middleware

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(RateLimitConfig{Max: limit, Window: window, KeyFn: KeyByIP})
	rl.now = clock.Now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		keys    []string
		allowed []bool
	}{
		{"within limit", 3, []string{"a", "a", "a"}, []bool{true, true, true}},
		{"over limit", 2, []string{"a", "a", "a", "a"}, []bool{true, true, false, false}},
		{"keys independent", 1, []string{"a", "b", "a", "b"}, []bool{true, true, false, false}},
		{"zero budget", 0, []string{"a"}, []bool{false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.max, time.Minute)
			for i, key := range tt.keys {
				if got := rl.Allow(key); got != tt.allowed[i] {
					t.Fatalf("request %d for %q: allowed = %v, want %v", i+1, key, got, tt.allowed[i])
				}
			}
		})
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	if !rl.Allow("a") {
		t.Fatal("first request should pass")
	}
	clock.Advance(30 * time.Second)
	if rl.Allow("a") {
		t.Fatal("second request inside the window should be blocked")
	}
	clock.Advance(31 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("request after the window should pass")
	}
}

func TestRateLimiterAnalyzeBudget(t *testing.T) {
	rl := NewAnalyzeRateLimiter(10)
	defer rl.Close()

	for i := range 10 {
		if !rl.Allow("ip:127.0.0.1") {
			t.Fatalf("analyze request %d should be allowed", i+1)
		}
	}
	if rl.Allow("ip:127.0.0.1") {
		t.Fatal("11th analyze request should be blocked")
	}
}

func TestRateLimiterHandler(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	app := fiber.New()
	app.Get("/", rl.Handler(), func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first request status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", got)
	}

	clock.Advance(20 * time.Second)
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "41" {
		t.Errorf("Retry-After = %q, want 41", got)
	}
}
