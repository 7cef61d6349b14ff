package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/model"
)

func TestSearchEmptyQueryReturnsTrending(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t, "UC1", "vid1", "안녕하세요")
	svc := NewSearchService(e.searches, e.cache)
	ctx := context.Background()

	_, err := svc.Search(ctx, model.SearchRequest{Query: "안녕"})
	require.NoError(t, err)

	for _, q := range []string{"", "   ", "?!..."} {
		resp, err := svc.Search(ctx, model.SearchRequest{Query: q})
		require.NoError(t, err, q)
		assert.Empty(t, resp.Results, q)
		assert.Equal(t, "", resp.Query)
		require.Len(t, resp.Trending, 1, q)
		assert.Equal(t, "안녕", resp.Trending[0].Keyword)
	}

	// Empty queries are not logged.
	keywords, err := e.searches.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, 1, keywords[0].SearchCount)
}

func TestSearchPagingFields(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t, "UC1", "vid1", "좋아 1", "좋아 2", "좋아 3")
	svc := NewSearchService(e.searches, e.cache)

	resp, err := svc.Search(context.Background(), model.SearchRequest{Query: "좋아", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	assert.True(t, resp.HasMore)

	resp, err = svc.Search(context.Background(), model.SearchRequest{Query: "좋아", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, 2, resp.Page)
	assert.False(t, resp.HasMore)
}

func TestSearchLogsZeroResults(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t, "UC1", "vid1", "안녕하세요")
	svc := NewSearchService(e.searches, e.cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := svc.Search(ctx, model.SearchRequest{Query: "없는말"})
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.NotNil(t, resp.Results)
	}

	n, err := e.searches.ZeroResultCount(ctx, "없는말")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	zero, err := svc.ZeroResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, zero, 1)
	assert.Equal(t, "없는말", zero[0].Query)
}

func TestTrendingLimitClamped(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t, "UC1", "vid1", "하나", "둘")
	svc := NewSearchService(e.searches, e.cache)
	ctx := context.Background()

	for _, q := range []string{"하나", "둘"} {
		_, err := svc.Search(ctx, model.SearchRequest{Query: q})
		require.NoError(t, err)
	}

	for _, limit := range []int{0, -1, 1000} {
		keywords, err := svc.Trending(ctx, limit)
		require.NoError(t, err)
		assert.Len(t, keywords, 2)
	}
	keywords, err := svc.Trending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}
