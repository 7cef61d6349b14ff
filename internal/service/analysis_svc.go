package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chabro2633/diary-korean/internal/analyzer"
	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/pkg/hash"
)

// AnalysisService answers analysis requests from the Redis hot layer, then
// the database cache, then the external analyzer.
type AnalysisService struct {
	analyzer analyzer.Analyzer
	entries  *repository.AnalysisRepo
	segments *repository.SegmentRepo
	videos   *repository.VideoRepo
	channels *repository.ChannelRepo
	cache    *CacheService
}

// NewAnalysisService wires the analysis pipeline. A nil analyzer makes every
// cache miss return the fallback document.
func NewAnalysisService(
	a analyzer.Analyzer,
	entries *repository.AnalysisRepo,
	segments *repository.SegmentRepo,
	videos *repository.VideoRepo,
	channels *repository.ChannelRepo,
	cache *CacheService,
) *AnalysisService {
	return &AnalysisService{
		analyzer: a,
		entries:  entries,
		segments: segments,
		videos:   videos,
		channels: channels,
		cache:    cache,
	}
}

// Analyze returns the analysis of a segment in its context window. Only the
// context lookup can fail the request; cache errors are logged and treated
// as misses, and analyzer failures yield an uncached fallback document.
func (s *AnalysisService) Analyze(ctx context.Context, segmentID int64, window int) (*model.AnalyzeResponse, error) {
	if window < 0 {
		return nil, ErrInvalidWindow
	}
	if window > repository.MaxContextWindow {
		window = repository.MaxContextWindow
	}

	c, err := s.segments.Context(ctx, segmentID, window)
	if err != nil {
		return nil, fmt.Errorf("analysis context for segment %d: %w", segmentID, err)
	}
	fingerprint := hash.ContextFingerprint(segmentID, c.NeighborIDs())

	log := logging.Component("analysis").With().
		Int64("segment_id", segmentID).
		Str("context_hash", fingerprint).
		Logger()

	if doc := s.fromRedis(ctx, segmentID, fingerprint); doc != nil {
		metrics.AnalysisCacheHits.WithLabelValues("redis").Inc()
		return &model.AnalyzeResponse{Analysis: doc, Cached: true}, nil
	}

	entry, err := s.entries.Get(ctx, segmentID, fingerprint)
	switch {
	case err == nil:
		var doc model.AnalysisDocument
		if err := json.Unmarshal(entry.AnalysisJSON, &doc); err == nil {
			metrics.AnalysisCacheHits.WithLabelValues("db").Inc()
			if err := s.cache.SetAnalysis(ctx, segmentID, fingerprint, entry.AnalysisJSON); err != nil {
				log.Warn().Err(err).Msg("analysis cache backfill failed")
			}
			return &model.AnalyzeResponse{Analysis: &doc, Cached: true}, nil
		}
		log.Warn().Msg("stored analysis is not valid JSON, regenerating")
	case errors.Is(err, repository.ErrNotFound):
	default:
		log.Warn().Err(err).Msg("analysis cache read failed")
	}
	metrics.AnalysisCacheMisses.Inc()

	if s.analyzer == nil {
		return &model.AnalyzeResponse{Analysis: model.FallbackAnalysis(c.Center.Text)}, nil
	}

	req := s.buildRequest(ctx, c)
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req)
	metrics.AnalyzerDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalyzerFailures.Inc()
		log.Error().Err(err).Msg("analyzer failed, serving fallback")
		return &model.AnalyzeResponse{Analysis: model.FallbackAnalysis(c.Center.Text)}, nil
	}

	payload, err := json.Marshal(result.Document)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	err = s.entries.Put(ctx, &model.AnalysisEntry{
		SegmentID:    segmentID,
		ContextHash:  fingerprint,
		AnalysisJSON: payload,
		ModelUsed:    result.Model,
		TokenCount:   result.TokenCount,
	})
	if err != nil {
		log.Error().Err(err).Msg("analysis cache write failed")
	}
	if err := s.cache.SetAnalysis(ctx, segmentID, fingerprint, payload); err != nil {
		log.Warn().Err(err).Msg("analysis hot cache write failed")
	}

	log.Info().Str("model", result.Model).Int("tokens", result.TokenCount).Msg("analysis generated")
	return &model.AnalyzeResponse{Analysis: result.Document}, nil
}

func (s *AnalysisService) fromRedis(ctx context.Context, segmentID int64, fingerprint string) *model.AnalysisDocument {
	data, err := s.cache.GetAnalysis(ctx, segmentID, fingerprint)
	if err != nil {
		log := logging.Component("analysis")
		log.Warn().Err(err).Msg("analysis hot cache read failed")
		return nil
	}
	if data == nil {
		return nil
	}
	var doc model.AnalysisDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return &doc
}

// buildRequest assembles the analyzer input. Video and channel details are
// best effort.
func (s *AnalysisService) buildRequest(ctx context.Context, c *model.Context) model.AnalysisRequest {
	req := model.AnalysisRequest{
		Expression: c.Center.Text,
		Sentence:   c.Center.Text,
		Context:    c.Sentences(),
	}
	if c.Center.Speaker != nil {
		req.Speaker = *c.Center.Speaker
	}

	v, err := s.videos.FindByID(ctx, c.VideoID)
	if err != nil {
		return req
	}
	req.VideoTitle = v.Title
	if ch, err := s.channels.FindByID(ctx, v.ChannelID); err == nil && ch.Category != nil {
		req.Category = *ch.Category
	}
	return req
}
