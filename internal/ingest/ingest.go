// Package ingest loads already-downloaded video metadata and caption files
// into the subtitle store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/tier"
)

// ErrLocked is returned when another ingestion holds the directory lock.
var ErrLocked = errors.New("ingest: directory is locked by another run")

const lockFileName = ".diary-ingest.lock"

// Outcome is the result of ingesting one video.
type Outcome string

const (
	Ingested       Outcome = "ingested"
	NoData         Outcome = "no_data"
	NotWhitelisted Outcome = "not_whitelisted"
	Failed         Outcome = "failed"
)

// ItemResult reports one video of a run.
type ItemResult struct {
	VideoID    string
	ChannelID  string
	Outcome    Outcome
	Tier       tier.Tier
	KoSegments int64
	EnSegments int64
	Err        error
}

// Report summarizes a directory run.
type Report struct {
	Items []ItemResult
}

// Count returns the number of items with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

// VideoInvalidator drops cached pages of a video after it changes.
type VideoInvalidator interface {
	InvalidateVideo(ctx context.Context, videoID string) error
}

type Service struct {
	channels *repository.ChannelRepo
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	cache    VideoInvalidator
	now      func() time.Time
}

func NewService(channels *repository.ChannelRepo, videos *repository.VideoRepo, segments *repository.SegmentRepo, cache VideoInvalidator) *Service {
	return &Service{channels: channels, videos: videos, segments: segments, cache: cache, now: time.Now}
}

// IngestDir ingests every <id>.info.json in dir together with its
// <id>.ko.json3 and <id>.en.json3 caption files. A failing item is logged
// and recorded; the run continues with the next one.
func (s *Service) IngestDir(ctx context.Context, dir string) (*Report, error) {
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer lock.Unlock()

	manifests, err := filepath.Glob(filepath.Join(dir, "*.info.json"))
	if err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}
	sort.Strings(manifests)

	log := logging.Component("ingest")
	log.Info().Str("dir", dir).Int("videos", len(manifests)).Msg("ingest started")

	report := &Report{}
	crawled := map[string]bool{}
	for _, path := range manifests {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		item := s.ingestOne(ctx, path)
		report.Items = append(report.Items, item)

		ev := log.Info()
		if item.Err != nil {
			ev = log.Warn().Err(item.Err)
		}
		ev.Str("video_id", item.VideoID).
			Str("outcome", string(item.Outcome)).
			Int64("ko", item.KoSegments).
			Int64("en", item.EnSegments).
			Msg("item processed")

		if item.Outcome == Ingested {
			crawled[item.ChannelID] = true
		}
	}

	for channelID := range crawled {
		if err := s.channels.MarkCrawled(ctx, channelID, s.now()); err != nil {
			log.Warn().Err(err).Str("channel_id", channelID).Msg("mark crawled failed")
		}
	}

	log.Info().
		Int("ingested", report.Count(Ingested)).
		Int("no_data", report.Count(NoData)).
		Int("not_whitelisted", report.Count(NotWhitelisted)).
		Int("failed", report.Count(Failed)).
		Msg("ingest finished")
	return report, nil
}

func (s *Service) ingestOne(ctx context.Context, path string) ItemResult {
	base := strings.TrimSuffix(filepath.Base(path), ".info.json")
	item := ItemResult{VideoID: base}

	data, err := os.ReadFile(path)
	if err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		item.Outcome = NoData
		return item
	}
	m, err := ParseManifest(data)
	if err != nil {
		item.Outcome, item.Err = NoData, err
		return item
	}
	item.VideoID, item.ChannelID = m.ID, m.ChannelID

	ok, err := s.channels.IsWhitelisted(ctx, m.ChannelID)
	if err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	if !ok {
		item.Outcome = NotWhitelisted
		return item
	}

	dir := filepath.Dir(path)
	ko, err := readTrack(dir, base, model.Korean)
	if err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	en, err := readTrack(dir, base, model.English)
	if err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	if len(ko) == 0 && len(en) == 0 {
		item.Outcome = NoData
		return item
	}

	// A track only counts towards the composition when captions arrived.
	var c tier.Composition
	if len(ko) > 0 {
		c.Korean = originOr(m.Origin(model.Korean), tier.Auto)
	}
	if len(en) > 0 {
		c.English = originOr(m.Origin(model.English), tier.Auto)
	}
	item.Tier = tier.Classify(c)

	if err := s.videos.Upsert(ctx, m.VideoInput(c)); err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	if item.KoSegments, err = s.insertTrack(ctx, m.ID, model.Korean, ko); err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}
	if item.EnSegments, err = s.insertTrack(ctx, m.ID, model.English, en); err != nil {
		item.Outcome, item.Err = Failed, err
		return item
	}

	if s.cache != nil {
		if err := s.cache.InvalidateVideo(ctx, m.ID); err != nil {
			log := logging.Component("ingest")
			log.Warn().Err(err).Str("video_id", m.ID).Msg("video cache invalidation failed")
		}
	}
	item.Outcome = Ingested
	return item
}

func (s *Service) insertTrack(ctx context.Context, videoID string, lang model.Language, segs []model.SegmentInput) (int64, error) {
	if len(segs) == 0 {
		return 0, nil
	}
	n, err := s.segments.Insert(ctx, videoID, lang, segs, repository.InsertSkipExisting)
	if err != nil {
		return 0, fmt.Errorf("insert %s track: %w", lang, err)
	}
	metrics.IngestedSegments.WithLabelValues(string(lang)).Add(float64(n))
	return n, nil
}

// readTrack loads <base>.<lang>.json3. A missing file is an empty track;
// malformed captions are logged and also yield an empty track.
func readTrack(dir, base string, lang model.Language) ([]model.SegmentInput, error) {
	data, err := os.ReadFile(filepath.Join(dir, base+"."+string(lang)+".json3"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	segs, err := ParseCaptions(data)
	if err != nil {
		log := logging.Component("ingest")
		log.Warn().Err(err).Str("video_id", base).Str("lang", string(lang)).Msg("malformed captions ignored")
		return nil, nil
	}
	return segs, nil
}

func originOr(o, fallback tier.Origin) tier.Origin {
	if o.Present() {
		return o
	}
	return fallback
}
