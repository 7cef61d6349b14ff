package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/tier"
)

type testEnv struct {
	db       db.DB
	channels *repository.ChannelRepo
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	searches *repository.SearchRepo
	analyses *repository.AnalysisRepo
	cache    *CacheService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(d.Close)
	require.NoError(t, db.Migrate(context.Background(), d))
	return &testEnv{
		db:       d,
		channels: repository.NewChannelRepo(d),
		videos:   repository.NewVideoRepo(d),
		segments: repository.NewSegmentRepo(d),
		searches: repository.NewSearchRepo(d),
		analyses: repository.NewAnalysisRepo(d),
		cache:    NewCacheServiceWithClient(nil),
	}
}

func ptr[T any](v T) *T { return &v }

// seed creates a channel, a video on it and a Korean track with the given
// lines, returning the stored segments.
func (e *testEnv) seed(t *testing.T, channelID, videoID string, lines ...string) []model.Segment {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.channels.Upsert(ctx, &model.Channel{
		ID: channelID, Name: "Channel " + channelID, Category: ptr("drama"), IsActive: true,
	}))
	require.NoError(t, e.videos.Upsert(ctx, model.VideoInput{
		ID: videoID, ChannelID: channelID, Title: ptr("Video " + videoID),
		Composition: &tier.Composition{Korean: tier.Manual},
	}))

	segs := make([]model.SegmentInput, len(lines))
	for i, line := range lines {
		segs[i] = model.SegmentInput{SequenceNum: i + 1, StartTimeMs: i * 1000, EndTimeMs: i*1000 + 900, Text: line}
	}
	_, err := e.segments.Insert(ctx, videoID, model.Korean, segs, repository.InsertSkipExisting)
	require.NoError(t, err)

	out, err := e.segments.ListByVideo(ctx, videoID, model.Korean)
	require.NoError(t, err)
	return out
}

var errAnalyzerDown = errors.New("analyzer down")

// fakeAnalyzer records requests and answers with a fixed document or error.
type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []model.AnalysisRequest
	err   error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	doc := &model.AnalysisDocument{
		Definition:         model.Definition{Korean: req.Expression, English: "translated", PartOfSpeech: "phrase"},
		ExampleSentences:   []model.ExampleSentence{},
		GrammarPoints:      []model.GrammarPoint{},
		RelatedExpressions: []model.RelatedExpression{},
	}
	return &model.AnalysisResult{Document: doc, Model: "fake-model", TokenCount: 42}, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
