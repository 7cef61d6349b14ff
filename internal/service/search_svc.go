package service

import (
	"context"
	"encoding/json"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/search"
	"github.com/chabro2633/diary-korean/internal/textnorm"
)

// Trending list bounds.
const (
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50
)

type SearchService struct {
	repo  *repository.SearchRepo
	cache *CacheService
}

func NewSearchService(repo *repository.SearchRepo, cache *CacheService) *SearchService {
	return &SearchService{repo: repo, cache: cache}
}

// Search normalizes the query and runs it with the request's filters. A
// query that normalizes to nothing returns the trending keywords instead.
// Every real search is logged; a logging failure does not fail the search.
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	log := logging.Component("search")

	normalized := textnorm.Normalize(req.Query)
	if normalized == "" {
		trending, err := s.Trending(ctx, DefaultTrendingLimit)
		if err != nil {
			log.Warn().Err(err).Msg("trending lookup failed for empty query")
			trending = []model.TrendingKeyword{}
		}
		return &model.SearchResponse{
			Results:  []model.SearchHit{},
			Query:    "",
			Trending: trending,
		}, nil
	}

	limit, offset := search.ClampPaging(req.Limit, req.Offset)
	hits, err := s.repo.Search(ctx, search.Params{
		Normalized: normalized,
		Filters:    req.Filters,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	outcome := "hit"
	if len(hits) == 0 {
		outcome = "zero"
	}
	metrics.Searches.WithLabelValues(outcome).Inc()

	entry := model.SearchLog{
		Query:       req.Query,
		Normalized:  normalized,
		Filters:     req.Filters,
		ResultCount: len(hits),
	}
	if req.UserID != "" {
		entry.UserID = &req.UserID
	}
	if err := s.repo.LogSearch(ctx, entry); err != nil {
		log.Error().Err(err).Str("query", normalized).Msg("search log write failed")
	}

	return &model.SearchResponse{
		Results:  hits,
		Total:    len(hits),
		Query:    req.Query,
		Page:     offset/limit + 1,
		PageSize: limit,
		HasMore:  len(hits) == limit,
	}, nil
}

// Trending returns the top keywords, served from Redis when warm.
func (s *SearchService) Trending(ctx context.Context, limit int) ([]model.TrendingKeyword, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}

	log := logging.Component("search")
	if data, err := s.cache.GetTrending(ctx, limit); err != nil {
		log.Warn().Err(err).Msg("trending cache get failed")
	} else if data != nil {
		var keywords []model.TrendingKeyword
		if err := json.Unmarshal(data, &keywords); err == nil {
			return keywords, nil
		}
	}

	keywords, err := s.repo.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetTrending(ctx, limit, keywords); err != nil {
		log.Warn().Err(err).Msg("trending cache set failed")
	}
	return keywords, nil
}

// ZeroResults lists unprocessed queries that found nothing.
func (s *SearchService) ZeroResults(ctx context.Context, limit int) ([]model.ZeroResultQuery, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return s.repo.ZeroResults(ctx, limit)
}
