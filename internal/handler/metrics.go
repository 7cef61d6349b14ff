package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/chabro2633/diary-korean/internal/metrics"
)

// MetricsMiddleware records request duration and in-flight count.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Fiber's path and method are backed by the fasthttp buffer, which
		// handlers may reuse; copy them before c.Next().
		endpoint := sanitizeEndpoint(strings.Clone(c.Path()))
		method := strings.Clone(c.Method())

		metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint maps paths onto route templates to bound label cardinality.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/videos/"):
		return "/api/videos/:videoId"
	case strings.HasPrefix(path, "/api/subtitles/"):
		return "/api/subtitles/:subtitleId/context"
	case strings.HasPrefix(path, "/api/channels/"):
		return "/api/channels/:channelId"
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/health/"):
		return path
	default:
		return "other"
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
