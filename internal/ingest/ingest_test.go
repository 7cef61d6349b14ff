package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/tier"
)

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recordingInvalidator) InvalidateVideo(_ context.Context, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, videoID)
	return r.err
}

type fixture struct {
	dir      string
	svc      *Service
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	channels *repository.ChannelRepo
	cache    *recordingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(d.Close)
	require.NoError(t, db.Migrate(context.Background(), d))

	f := &fixture{
		dir:      t.TempDir(),
		videos:   repository.NewVideoRepo(d),
		segments: repository.NewSegmentRepo(d),
		channels: repository.NewChannelRepo(d),
		cache:    &recordingInvalidator{},
	}
	f.svc = NewService(f.channels, f.videos, f.segments, f.cache)

	category := "drama"
	require.NoError(t, f.channels.Upsert(context.Background(), &model.Channel{
		ID: "UC1", Name: "Whitelisted", Category: &category, IsActive: true,
	}))
	return f
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

func TestIngestDir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.write(t, "v1.info.json", `{"id": "v1", "title": "First", "channel_id": "UC1",
		"subtitles": {"ko": []}, "automatic_captions": {"en": []}}`)
	f.write(t, "v1.ko.json3", sampleJSON3)
	f.write(t, "v1.en.json3", `{"events": [{"tStartMs": 0, "dDurationMs": 900, "segs": [{"utf8": "Hello"}]}]}`)

	f.write(t, "v2.info.json", `{"id": "v2", "title": "Stranger", "channel_id": "UC-other"}`)
	f.write(t, "v2.ko.json3", sampleJSON3)

	f.write(t, "v3.info.json", `{"id": "v3", "title": "No captions", "channel_id": "UC1"}`)
	f.write(t, "v4.info.json", ``)
	f.write(t, "v5.info.json", `{not json`)

	report, err := f.svc.IngestDir(ctx, f.dir)
	require.NoError(t, err)
	require.Len(t, report.Items, 5)
	assert.Equal(t, 1, report.Count(Ingested))
	assert.Equal(t, 1, report.Count(NotWhitelisted))
	assert.Equal(t, 3, report.Count(NoData))

	v, err := f.videos.FindByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "First", v.Title)
	assert.Equal(t, int(tier.HasEnglish), v.SubtitleTier)
	assert.Equal(t, "manual_korean+auto_english", v.SubtitleSource)

	ko, err := f.segments.CountByVideo(ctx, "v1", model.Korean)
	require.NoError(t, err)
	assert.Equal(t, 3, ko)
	en, err := f.segments.CountByVideo(ctx, "v1", model.English)
	require.NoError(t, err)
	assert.Equal(t, 1, en)

	_, err = f.videos.FindByID(ctx, "v2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, []string{"v1"}, f.cache.ids)

	ch, err := f.channels.FindByID(ctx, "UC1")
	require.NoError(t, err)
	assert.NotNil(t, ch.LastCrawledAt)
}

func TestIngestDirIsRepeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.write(t, "v1.info.json", `{"id": "v1", "title": "Old title", "channel_id": "UC1", "subtitles": {"ko": []}}`)
	f.write(t, "v1.ko.json3", sampleJSON3)

	report, err := f.svc.IngestDir(ctx, f.dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Items[0].KoSegments)

	f.write(t, "v1.info.json", `{"id": "v1", "title": "New title", "channel_id": "UC1", "subtitles": {"ko": []}}`)
	report, err = f.svc.IngestDir(ctx, f.dir)
	require.NoError(t, err)
	assert.Equal(t, Ingested, report.Items[0].Outcome)
	assert.Zero(t, report.Items[0].KoSegments)

	v, err := f.videos.FindByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "New title", v.Title)
	assert.Equal(t, int(tier.ManualKo), v.SubtitleTier)
}

func TestIngestDirLocked(t *testing.T) {
	f := newFixture(t)

	held := flock.New(filepath.Join(f.dir, lockFileName))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = held.Unlock() })

	_, err = f.svc.IngestDir(context.Background(), f.dir)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestIngestDirToleratesBadCaptionsAndCacheErrors(t *testing.T) {
	f := newFixture(t)
	f.cache.err = errors.New("redis unavailable")
	ctx := context.Background()

	f.write(t, "v1.info.json", `{"id": "v1", "title": "Half broken", "channel_id": "UC1",
		"subtitles": {"ko": []}, "automatic_captions": {"en": []}}`)
	f.write(t, "v1.ko.json3", `{"events": [`)
	f.write(t, "v1.en.json3", `{"events": [{"tStartMs": 0, "dDurationMs": 900, "segs": [{"utf8": "No"}, {"utf8": " "}, {"utf8": "clue"}]}]}`)

	report, err := f.svc.IngestDir(ctx, f.dir)
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, Ingested, report.Items[0].Outcome)
	assert.Zero(t, report.Items[0].KoSegments)
	assert.Equal(t, int64(1), report.Items[0].EnSegments)
	assert.Equal(t, []string{"v1"}, f.cache.ids)

	v, err := f.videos.FindByID(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, v.HasKoreanSubtitle)
	assert.Equal(t, int(tier.HasEnglish), v.SubtitleTier)

	en, err := f.segments.ListByVideo(ctx, "v1", model.English)
	require.NoError(t, err)
	require.Len(t, en, 1)
	assert.Equal(t, "No clue", en[0].Text)
}
