package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/analyzer"
	"github.com/chabro2633/diary-korean/internal/config"
	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/handler"
	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/middleware"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/router"
	"github.com/chabro2633/diary-korean/internal/service"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.Server.LogLevel, "diary-api")
	log := logging.Logger

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pool, err := db.Open(ctx, cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	if err := db.Migrate(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}
	metrics.Register(pool)

	cache := service.NewCacheService(cfg.Redis.URL)
	defer cache.Close()

	var a analyzer.Analyzer
	if cfg.Analysis.Enabled {
		acfg := analyzer.DefaultConfig()
		acfg.APIKey = cfg.Analysis.GeminiAPIKey
		acfg.Model = cfg.Analysis.Model
		acfg.RequestsPerMin = cfg.Analysis.RequestsPerMin
		acfg.Timeout = cfg.Analysis.Timeout.Duration
		g, err := analyzer.NewGemini(ctx, acfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create analyzer")
		}
		a = g
		log.Info().Str("model", g.Model()).Msg("analyzer enabled")
	} else {
		log.Warn().Msg("analysis disabled, serving fallback documents")
	}

	// Repositories
	channelRepo := repository.NewChannelRepo(store)
	videoRepo := repository.NewVideoRepo(store)
	segmentRepo := repository.NewSegmentRepo(store)
	searchRepo := repository.NewSearchRepo(store)
	analysisRepo := repository.NewAnalysisRepo(store)

	// Services
	searchSvc := service.NewSearchService(searchRepo, cache)
	videoSvc := service.NewVideoService(videoRepo, segmentRepo, cache)
	analysisSvc := service.NewAnalysisService(a, analysisRepo, segmentRepo, videoRepo, channelRepo, cache)
	channelSvc := service.NewChannelService(channelRepo)

	worker := service.NewTrendWorker(searchRepo, searchSvc, cache, cfg.Trends.RefreshInterval.Duration, cfg.Trends.Window.Duration)
	go worker.Start(ctx)
	defer worker.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "diary-korean API",
		ServerHeader: "diary-korean",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	limiters := router.Limiters{
		API:     middleware.NewAPIRateLimiter(),
		Search:  middleware.NewSearchRateLimiter(cfg.RateLimit.SearchPerMin),
		Analyze: middleware.NewAnalyzeRateLimiter(cfg.RateLimit.AnalyzePerMin),
	}
	defer limiters.Close()

	router.Setup(app, &router.Handlers{
		Search:   handler.NewSearchHandler(searchSvc),
		Video:    handler.NewVideoHandler(videoSvc),
		Analysis: handler.NewAnalysisHandler(analysisSvc),
		Channel:  handler.NewChannelHandler(channelSvc),
		Health:   handler.NewHealthHandler(store, cache.Client()),
	}, limiters, cfg.Server.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("env", cfg.Server.Environment).
			Str("dialect", store.Dialect().String()).
			Msg("diary-korean API starting")
		errCh <- app.Listen(":"+cfg.Server.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}
