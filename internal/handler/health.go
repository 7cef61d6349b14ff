package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/chabro2633/diary-korean/internal/db"
)

// Version is reported by the readiness probe. Overridden at link time.
var Version = "dev"

const readyTimeout = 3 * time.Second

// dependencyStatus is one entry of the readiness report.
type dependencyStatus struct {
	Status    string `json:"status"`
	Dialect   string `json:"dialect,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type readiness struct {
	Status        string                      `json:"status"`
	Checks        map[string]dependencyStatus `json:"checks"`
	UptimeSeconds int                         `json:"uptime_seconds"`
	Version       string                      `json:"version"`
}

type HealthHandler struct {
	store   db.DB
	rdb     *redis.Client
	started time.Time
}

// NewHealthHandler probes the store and, when rdb is non-nil, Redis.
func NewHealthHandler(store db.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{store: store, rdb: rdb, started: time.Now()}
}

// Live answers as long as the process serves requests.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready reports unhealthy (503) without the store. A Redis outage only
// degrades the service since caching is optional.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readyTimeout)
	defer cancel()

	store := probe(ctx, h.store.Ping)
	store.Dialect = h.store.Dialect().String()

	cache := dependencyStatus{Status: "disabled"}
	if h.rdb != nil {
		cache = probe(ctx, func(ctx context.Context) error { return h.rdb.Ping(ctx).Err() })
	}

	report := readiness{
		Status:        "healthy",
		Checks:        map[string]dependencyStatus{"database": store, "redis": cache},
		UptimeSeconds: int(time.Since(h.started).Seconds()),
		Version:       Version,
	}
	code := fiber.StatusOK
	if store.Status != "up" {
		report.Status, code = "unhealthy", fiber.StatusServiceUnavailable
	} else if cache.Status == "down" {
		report.Status = "degraded"
	}
	return c.Status(code).JSON(report)
}

func probe(ctx context.Context, ping func(context.Context) error) dependencyStatus {
	start := time.Now()
	err := ping(ctx)
	s := dependencyStatus{Status: "up", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		s.Status, s.Error = "down", "connection failed"
	}
	return s
}
