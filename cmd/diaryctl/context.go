package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/chabro2633/diary-korean/internal/config"
	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/service"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		logging.InitFile(os.Stderr, cfg.Server.LogLevel, "diaryctl")
		c.config = cfg
	})
	return c.config, c.configErr
}

// deps bundles the store-backed components a command works with.
type deps struct {
	store    db.DB
	channels *repository.ChannelRepo
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	searches *repository.SearchRepo
	cache    *service.CacheService
}

// withStore opens the configured store, applies the schema and hands the
// repositories to fn.
func (c *commandContext) withStore(ctx context.Context, fn func(*deps) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, _, err := db.Open(ctx, cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := db.Migrate(ctx, store); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cache := service.NewCacheService(cfg.Redis.URL)
	defer cache.Close()

	return fn(&deps{
		store:    store,
		channels: repository.NewChannelRepo(store),
		videos:   repository.NewVideoRepo(store),
		segments: repository.NewSegmentRepo(store),
		searches: repository.NewSearchRepo(store),
		cache:    cache,
	})
}
