package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

func newTestDB(t *testing.T) db.DB {
	t.Helper()
	d, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(d.Close)
	require.NoError(t, db.Migrate(context.Background(), d))
	return d
}

func ptr[T any](v T) *T { return &v }

func seedChannel(t *testing.T, d db.DB, id, category string) {
	t.Helper()
	err := NewChannelRepo(d).Upsert(context.Background(), &model.Channel{
		ID: id, Name: "Channel " + id, Category: ptr(category), IsActive: true,
	})
	require.NoError(t, err)
}

func seedVideo(t *testing.T, d db.DB, id, channelID string, c tier.Composition) {
	t.Helper()
	err := NewVideoRepo(d).Upsert(context.Background(), model.VideoInput{
		ID: id, ChannelID: channelID, Title: ptr("Video " + id), Composition: &c,
	})
	require.NoError(t, err)
}

func seedTrack(t *testing.T, d db.DB, videoID string, lang model.Language, starts []int, texts ...string) []model.Segment {
	t.Helper()
	segs := make([]model.SegmentInput, len(texts))
	for i, text := range texts {
		start := i * 1000
		if starts != nil {
			start = starts[i]
		}
		segs[i] = model.SegmentInput{SequenceNum: i + 1, StartTimeMs: start, EndTimeMs: start + 900, Text: text}
	}
	repo := NewSegmentRepo(d)
	_, err := repo.Insert(context.Background(), videoID, lang, segs, InsertSkipExisting)
	require.NoError(t, err)
	out, err := repo.ListByVideo(context.Background(), videoID, lang)
	require.NoError(t, err)
	return out
}
