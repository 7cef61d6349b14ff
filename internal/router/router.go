package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/chabro2633/diary-korean/internal/handler"
	"github.com/chabro2633/diary-korean/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Search   *handler.SearchHandler
	Video    *handler.VideoHandler
	Analysis *handler.AnalysisHandler
	Channel  *handler.ChannelHandler
	Health   *handler.HealthHandler
}

// Limiters are the per-route rate limiters. Nil entries disable limiting.
type Limiters struct {
	API     *middleware.RateLimiter
	Search  *middleware.RateLimiter
	Analyze *middleware.RateLimiter
}

// Close stops every limiter's cleanup loop.
func (l Limiters) Close() {
	for _, rl := range []*middleware.RateLimiter{l.API, l.Search, l.Analyze} {
		if rl != nil {
			rl.Close()
		}
	}
}

// Setup configures the middleware stack and all routes on the given app.
func Setup(app *fiber.App, h *Handlers, l Limiters, corsOrigins string) {
	// Order matters: recover wraps everything, the logger sees final statuses.
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")
	api.Use(limit(l.API))

	api.Get("/search/trending", h.Search.Trending)
	api.Get("/search", limit(l.Search), h.Search.Search)

	api.Get("/videos/:videoId", h.Video.GetByVideoID)
	api.Get("/subtitles/:subtitleId/context", h.Video.Context)

	api.Post("/ai/analyze", limit(l.Analyze), h.Analysis.Analyze)

	api.Get("/channels", h.Channel.List)
	api.Get("/channels/:channelId", h.Channel.GetByChannelID)

	app.Use(func(c fiber.Ctx) error {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Route not found")
	})
}

func limit(rl *middleware.RateLimiter) fiber.Handler {
	if rl == nil {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	return rl.Handler()
}
