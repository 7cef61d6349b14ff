package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
)

// ErrInvalidWindow is returned for a negative context window.
var ErrInvalidWindow = errors.New("context window must not be negative")

type VideoService struct {
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	cache    *CacheService
}

func NewVideoService(videos *repository.VideoRepo, segments *repository.SegmentRepo, cache *CacheService) *VideoService {
	return &VideoService{videos: videos, segments: segments, cache: cache}
}

// Get returns a video with one subtitle track. When subtitleID is non-zero
// the segment's context is attached, provided it belongs to this video.
func (s *VideoService) Get(ctx context.Context, videoID string, lang model.Language, subtitleID int64, window int) (*model.VideoDetail, error) {
	if window < 0 {
		return nil, ErrInvalidWindow
	}

	detail, err := s.lookup(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}

	if subtitleID != 0 {
		c, err := s.Context(ctx, subtitleID, window)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, err
		case c.VideoID == videoID:
			detail.Context = c
		}
	}
	return detail, nil
}

// lookup is cache-aside over GetWithSegments.
func (s *VideoService) lookup(ctx context.Context, videoID string, lang model.Language) (*model.VideoDetail, error) {
	log := logging.Component("video")

	if data, err := s.cache.GetVideo(ctx, videoID, string(lang)); err != nil {
		log.Warn().Err(err).Msg("video cache get failed")
	} else if data != nil {
		var d model.VideoDetail
		if err := json.Unmarshal(data, &d); err == nil {
			return &d, nil
		}
	}

	detail, err := s.videos.GetWithSegments(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetVideo(ctx, videoID, string(lang), detail); err != nil {
		log.Warn().Err(err).Msg("video cache set failed")
	}
	return detail, nil
}

// Context returns a segment's neighborhood of window segments on each side,
// capped at repository.MaxContextWindow.
func (s *VideoService) Context(ctx context.Context, segmentID int64, window int) (*model.Context, error) {
	if window < 0 {
		return nil, ErrInvalidWindow
	}
	if window > repository.MaxContextWindow {
		window = repository.MaxContextWindow
	}
	c, err := s.segments.Context(ctx, segmentID, window)
	if err != nil {
		return nil, fmt.Errorf("context for segment %d: %w", segmentID, err)
	}
	return c, nil
}

// Delete removes a video with its tracks and stored analyses, then drops the
// matching Redis entries. Segment ids can be reused by the store after a
// delete, so cached analyses must not outlive their rows.
func (s *VideoService) Delete(ctx context.Context, videoID string) error {
	var ids []int64
	for _, lang := range []model.Language{model.Korean, model.English} {
		segs, err := s.segments.ListByVideo(ctx, videoID, lang)
		if err != nil {
			return fmt.Errorf("list %s track of %s: %w", lang, videoID, err)
		}
		for _, seg := range segs {
			ids = append(ids, seg.ID)
		}
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}

	log := logging.Component("video").With().Str("video_id", videoID).Logger()
	if err := s.cache.InvalidateVideo(ctx, videoID); err != nil {
		log.Warn().Err(err).Msg("video cache invalidation failed")
	}
	if err := s.cache.InvalidateAnalyses(ctx, ids); err != nil {
		log.Warn().Err(err).Msg("analysis cache invalidation failed")
	}
	log.Info().Int("segments", len(ids)).Msg("video deleted")
	return nil
}
