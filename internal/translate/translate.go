// Package translate fills a video's Korean track by machine-translating its
// English track.
package translate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/metrics"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/tier"
)

const (
	BatchSize = 100
	// Source recorded on every translated segment.
	Source = "google_translate"
)

var (
	ErrNoEnglishTrack = errors.New("translate: video has no English subtitles")
	ErrNativeKorean   = errors.New("translate: video already has native Korean subtitles")
	ErrNoClient       = errors.New("translate: no translation client configured")
)

// Report describes one translation run.
type Report struct {
	VideoID   string
	Segments  int
	Batches   int
	Written   int64
	DryRun    bool
	Samples   []string
	Completed bool
}

// VideoInvalidator drops cached pages of a video after it changes.
type VideoInvalidator interface {
	InvalidateVideo(ctx context.Context, videoID string) error
}

type Service struct {
	client   Client
	videos   *repository.VideoRepo
	segments *repository.SegmentRepo
	limiter  *rate.Limiter
	cache    VideoInvalidator
}

// NewService builds a translator paced at one batch per second. client may
// be nil for dry runs.
func NewService(client Client, videos *repository.VideoRepo, segments *repository.SegmentRepo) *Service {
	return &Service{
		client:   client,
		videos:   videos,
		segments: segments,
		limiter:  rate.NewLimiter(rate.Limit(1), 1),
	}
}

// WithInvalidator drops cached video pages after a successful run.
func (s *Service) WithInvalidator(inv VideoInvalidator) *Service {
	s.cache = inv
	return s
}

// TranslateVideo translates the English track of a video into its Korean
// track, batch by batch. A failed batch ends the run: later batches would
// leave a sequence gap. Batches already written are kept. Only a complete
// run marks the video as translated, which reclassifies it.
func (s *Service) TranslateVideo(ctx context.Context, videoID string, dryRun bool) (*Report, error) {
	log := logging.Component("translate").With().Str("video_id", videoID).Logger()

	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !v.HasEnglishSubtitle {
		return nil, ErrNoEnglishTrack
	}

	english, err := s.segments.ListByVideo(ctx, videoID, model.English)
	if err != nil {
		return nil, err
	}
	if len(english) == 0 {
		return nil, ErrNoEnglishTrack
	}
	if err := s.checkKoreanTrack(ctx, videoID); err != nil {
		return nil, err
	}

	report := &Report{
		VideoID:  videoID,
		Segments: len(english),
		Batches:  (len(english) + BatchSize - 1) / BatchSize,
		DryRun:   dryRun,
	}
	for i := 0; i < len(english) && i < 3; i++ {
		report.Samples = append(report.Samples, english[i].Text)
	}
	if dryRun {
		return report, nil
	}
	if s.client == nil {
		return nil, ErrNoClient
	}

	source := Source
	for b := 0; b < report.Batches; b++ {
		batch := english[b*BatchSize : min((b+1)*BatchSize, len(english))]
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		texts := make([]string, len(batch))
		for i, seg := range batch {
			texts[i] = seg.Text
		}
		translated, err := s.client.Translate(ctx, texts, language.English, language.Korean)
		if err == nil && len(translated) != len(texts) {
			err = fmt.Errorf("got %d translations for %d lines", len(translated), len(texts))
		}
		if err != nil {
			log.Error().Err(err).Int("batch", b+1).Int("batches", report.Batches).Msg("batch failed, stopping")
			return report, nil
		}

		inputs := make([]model.SegmentInput, len(batch))
		for i, seg := range batch {
			inputs[i] = model.SegmentInput{
				SequenceNum:       seg.SequenceNum,
				StartTimeMs:       seg.StartTimeMs,
				EndTimeMs:         seg.EndTimeMs,
				Text:              translated[i],
				Speaker:           seg.Speaker,
				IsTranslated:      true,
				TranslationSource: &source,
			}
		}
		n, err := s.segments.Insert(ctx, videoID, model.Korean, inputs, repository.InsertOverwrite)
		if err != nil {
			log.Error().Err(err).Int("batch", b+1).Msg("batch write failed, stopping")
			return report, nil
		}
		report.Written += n
		metrics.IngestedSegments.WithLabelValues(string(model.Korean)).Add(float64(n))
		log.Debug().Int("batch", b+1).Int("batches", report.Batches).Int64("written", n).Msg("batch translated")
	}

	c := v.Composition()
	c.Korean = tier.Auto
	translatedFrom := tier.SourceTranslated
	err = s.videos.Upsert(ctx, model.VideoInput{
		ID:             v.ID,
		ChannelID:      v.ChannelID,
		Composition:    &c,
		SubtitleSource: &translatedFrom,
	})
	if err != nil {
		return report, fmt.Errorf("reclassify %s: %w", videoID, err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateVideo(ctx, videoID); err != nil {
			log.Warn().Err(err).Msg("video cache invalidation failed")
		}
	}

	report.Completed = true
	log.Info().Int64("written", report.Written).Int("tier", int(tier.Classify(c))).Msg("translation complete")
	return report, nil
}

// checkKoreanTrack refuses to overwrite Korean lines that were not
// produced by translation.
func (s *Service) checkKoreanTrack(ctx context.Context, videoID string) error {
	korean, err := s.segments.ListByVideo(ctx, videoID, model.Korean)
	if err != nil {
		return err
	}
	for _, seg := range korean {
		if !seg.IsTranslated {
			return ErrNativeKorean
		}
	}
	return nil
}
