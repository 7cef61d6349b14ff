package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

func TestChannelUpsertAndList(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	repo := NewChannelRepo(d)

	require.NoError(t, repo.Upsert(ctx, &model.Channel{ID: "UC1", Name: "tvN", Category: ptr("drama"), IsActive: true, CrawlPriority: 5}))
	require.NoError(t, repo.Upsert(ctx, &model.Channel{ID: "UC2", Name: "SBS", Category: ptr("variety"), IsActive: true}))

	ch, err := repo.FindByID(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, "tvN", ch.Name)
	assert.Equal(t, "official", ch.SubtitleQuality)
	assert.True(t, ch.IsActive)

	// Re-registering updates the name and keeps the description.
	require.NoError(t, repo.Upsert(ctx, &model.Channel{ID: "UC1", Name: "tvN drama", Description: ptr("dramas"), Category: ptr("drama"), IsActive: true, CrawlPriority: 5}))
	require.NoError(t, repo.Upsert(ctx, &model.Channel{ID: "UC1", Name: "tvN drama", Category: ptr("drama"), IsActive: true, CrawlPriority: 5}))
	ch, err = repo.FindByID(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, "tvN drama", ch.Name)
	require.NotNil(t, ch.Description)
	assert.Equal(t, "dramas", *ch.Description)

	seedVideo(t, d, "V1", "UC2", tier.Composition{Korean: tier.Manual})

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "UC1", list[0].ID, "higher crawl priority first")
	assert.Equal(t, 0, list[0].IngestedVideos)
	assert.Equal(t, "UC2", list[1].ID)
	assert.Equal(t, 1, list[1].IngestedVideos)
}

func TestChannelDeactivate(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	repo := NewChannelRepo(d)
	seedChannel(t, d, "UC1", "music")

	ok, err := repo.IsWhitelisted(ctx, "UC1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Deactivate(ctx, "UC1"))

	ok, err = repo.IsWhitelisted(ctx, "UC1")
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	ok, err = repo.IsWhitelisted(ctx, "UCmissing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.Deactivate(ctx, "UCmissing"), ErrNotFound)
}

func TestChannelNotFound(t *testing.T) {
	d := newTestDB(t)
	_, err := NewChannelRepo(d).FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannelDeleteCascades(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	seedChannel(t, d, "UC1", "drama")
	seedVideo(t, d, "V1", "UC1", tier.Composition{Korean: tier.Manual})
	seedTrack(t, d, "V1", model.Korean, nil, "안녕하세요", "반가워요")

	require.NoError(t, NewChannelRepo(d).Delete(ctx, "UC1"))

	_, err := NewVideoRepo(d).FindByID(ctx, "V1")
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := NewSegmentRepo(d).CountByVideo(ctx, "V1", model.Korean)
	require.NoError(t, err)
	assert.Zero(t, n)
}
