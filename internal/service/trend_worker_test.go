package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/model"
)

func TestTrendWorkerTick(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t, "UC1", "vid1", "안녕", "대박")
	svc := NewSearchService(e.searches, e.cache)
	ctx := context.Background()

	for _, q := range []string{"대박", "대박", "안녕"} {
		_, err := svc.Search(ctx, model.SearchRequest{Query: q})
		require.NoError(t, err)
	}

	w := NewTrendWorker(e.searches, svc, e.cache, time.Hour, 24*time.Hour)
	w.Tick(ctx)

	keywords, err := e.searches.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "대박", keywords[0].Keyword)
	assert.Equal(t, 2.0, keywords[0].TrendScore)
	assert.Equal(t, 1.0, keywords[1].TrendScore)

	// Searches older than the window no longer count.
	w.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	w.Tick(ctx)
	keywords, err = e.searches.Trending(ctx, 10)
	require.NoError(t, err)
	for _, k := range keywords {
		assert.Zero(t, k.TrendScore, k.Keyword)
	}
}

func TestTrendWorkerStops(t *testing.T) {
	e := newTestEnv(t)
	svc := NewSearchService(e.searches, e.cache)
	w := NewTrendWorker(e.searches, svc, e.cache, time.Hour, time.Hour)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()
	w.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
