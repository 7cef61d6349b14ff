package service

import (
	"context"
	"sync"
	"time"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/repository"
)

// TrendWorker periodically recomputes trend scores from recent search logs,
// drops the cached trending lists and warms the default one.
type TrendWorker struct {
	repo     *repository.SearchRepo
	search   *SearchService
	cache    *CacheService
	interval time.Duration
	window   time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTrendWorker creates a worker that ticks every interval and scores
// searches made within the trailing window.
func NewTrendWorker(repo *repository.SearchRepo, search *SearchService, cache *CacheService, interval, window time.Duration) *TrendWorker {
	return &TrendWorker{
		repo:     repo,
		search:   search,
		cache:    cache,
		interval: interval,
		window:   window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one tick immediately, then every interval until the context
// is cancelled or Stop is called.
func (w *TrendWorker) Start(ctx context.Context) {
	log := logging.Component("trend-worker")
	log.Info().Dur("interval", w.interval).Dur("window", w.window).Msg("starting")

	w.Tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop. Safe to call more than once.
func (w *TrendWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Tick runs one refresh cycle.
func (w *TrendWorker) Tick(ctx context.Context) {
	log := logging.Component("trend-worker")
	start := time.Now()

	updated, err := w.repo.RefreshTrendScores(ctx, w.now().Add(-w.window))
	if err != nil {
		log.Error().Err(err).Msg("trend refresh failed")
		return
	}
	if err := w.cache.InvalidateTrending(ctx); err != nil {
		log.Warn().Err(err).Msg("trending cache invalidation failed")
	}
	if _, err := w.search.Trending(ctx, DefaultTrendingLimit); err != nil {
		log.Warn().Err(err).Msg("trending warmup failed")
	}

	elapsed := time.Since(start)
	metrics.TrendRefreshDuration.Observe(elapsed.Seconds())
	log.Info().Int64("keywords", updated).Dur("elapsed", elapsed).Msg("tick complete")
}
