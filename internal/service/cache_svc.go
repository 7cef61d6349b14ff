package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chabro2633/diary-korean/internal/logging"
)

// Redis key TTLs.
const (
	AnalysisCacheTTL = 24 * time.Hour
	TrendingCacheTTL = 5 * time.Minute
	VideoCacheTTL    = 5 * time.Minute
)

// CacheService is a Redis hot layer in front of the database for analyses,
// trending keywords and video pages. With a nil client every operation is a
// no-op miss.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. If redisURL is empty or the connection
// fails, it returns a CacheService with a nil client (caching disabled).
func NewCacheService(redisURL string) *CacheService {
	log := logging.Component("redis")
	if redisURL == "" {
		log.Info().Msg("no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("connection failed, caching disabled")
		_ = rdb.Close()
		return &CacheService{}
	}

	log.Info().Str("addr", opts.Addr).Msg("connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// NewCacheServiceWithClient wraps an existing client. A nil client disables caching.
func NewCacheServiceWithClient(rdb *redis.Client) *CacheService {
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Enabled reports whether a Redis client is configured.
func (c *CacheService) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetAnalysis retrieves a cached analysis payload. Returns nil on a miss.
func (c *CacheService) GetAnalysis(ctx context.Context, segmentID int64, contextHash string) ([]byte, error) {
	return c.get(ctx, analysisKey(segmentID, contextHash))
}

// SetAnalysis stores a raw analysis payload.
func (c *CacheService) SetAnalysis(ctx context.Context, segmentID int64, contextHash string, payload []byte) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Set(ctx, analysisKey(segmentID, contextHash), payload, AnalysisCacheTTL).Err()
}

// GetTrending retrieves a cached trending list for the given limit.
func (c *CacheService) GetTrending(ctx context.Context, limit int) ([]byte, error) {
	return c.get(ctx, trendingKey(limit))
}

// SetTrending stores a trending list.
func (c *CacheService) SetTrending(ctx context.Context, limit int, data any) error {
	return c.setJSON(ctx, trendingKey(limit), data, TrendingCacheTTL)
}

// InvalidateTrending drops every cached trending list.
func (c *CacheService) InvalidateTrending(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, "trending:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// GetVideo retrieves a cached video page for a track.
func (c *CacheService) GetVideo(ctx context.Context, videoID, lang string) ([]byte, error) {
	return c.get(ctx, videoKey(videoID, lang))
}

// SetVideo stores a video page for a track.
func (c *CacheService) SetVideo(ctx context.Context, videoID, lang string, data any) error {
	return c.setJSON(ctx, videoKey(videoID, lang), data, VideoCacheTTL)
}

// InvalidateVideo removes every cached track page of a video.
func (c *CacheService) InvalidateVideo(ctx context.Context, videoID string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, videoKey(videoID, "ko"), videoKey(videoID, "en")).Err()
}

// InvalidateAnalyses removes every cached analysis of the given segments,
// whatever their context fingerprint.
func (c *CacheService) InvalidateAnalyses(ctx context.Context, segmentIDs []int64) error {
	if !c.Enabled() {
		return nil
	}
	for _, id := range segmentIDs {
		iter := c.rdb.Scan(ctx, 0, analysisKey(id, "*"), 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

func (c *CacheService) get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (c *CacheService) setJSON(ctx context.Context, key string, data any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func analysisKey(segmentID int64, contextHash string) string {
	return fmt.Sprintf("analysis:%d:%s", segmentID, contextHash)
}

func trendingKey(limit int) string {
	return fmt.Sprintf("trending:%d", limit)
}

func videoKey(videoID, lang string) string {
	return fmt.Sprintf("video:%s:%s", videoID, lang)
}
