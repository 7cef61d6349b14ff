package repository

import (
	"context"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/textnorm"
)

// InsertMode selects what happens when a (video, lang, sequence) row exists.
type InsertMode int

const (
	// InsertSkipExisting leaves existing rows untouched (bulk collection).
	InsertSkipExisting InsertMode = iota
	// InsertOverwrite replaces the text fields of existing rows (translation).
	InsertOverwrite
)

func (m InsertMode) String() string {
	if m == InsertOverwrite {
		return "overwrite"
	}
	return "skip-existing"
}

// Context window bounds, in segments on each side of the center.
const (
	DefaultContextWindow = 5
	MaxContextWindow     = 50
)

type SegmentRepo struct {
	db db.DB
}

func NewSegmentRepo(d db.DB) *SegmentRepo {
	return &SegmentRepo{db: d}
}

const segmentColumns = `
	id, video_id, lang, sequence_num, start_time_ms, end_time_ms,
	text, text_normalized, speaker, is_translated, translation_source, created_at`

func scanSegment(row db.Row, s *model.Segment) error {
	var lang string
	err := row.Scan(
		&s.ID, &s.VideoID, &lang, &s.SequenceNum, &s.StartTimeMs, &s.EndTimeMs,
		&s.Text, &s.TextNormalized, &s.Speaker, &s.IsTranslated, &s.TranslationSource, &s.CreatedAt,
	)
	s.Lang = model.Language(lang)
	return err
}

// ValidateSegments checks a batch on its own: positive sequence numbers,
// end not before start, and contiguous ascending sequence numbers.
func ValidateSegments(segs []model.SegmentInput) error {
	for i, s := range segs {
		if s.SequenceNum < 1 {
			return fmt.Errorf("%w: sequence %d is not positive", ErrInvalidSegments, s.SequenceNum)
		}
		if s.EndTimeMs < s.StartTimeMs {
			return fmt.Errorf("%w: sequence %d ends at %dms before its start %dms",
				ErrInvalidSegments, s.SequenceNum, s.EndTimeMs, s.StartTimeMs)
		}
		if i > 0 && s.SequenceNum != segs[i-1].SequenceNum+1 {
			return fmt.Errorf("%w: sequence %d follows %d", ErrInvalidSegments, s.SequenceNum, segs[i-1].SequenceNum)
		}
	}
	return nil
}

// Insert writes an ordered batch to a video's track and returns the number
// of rows written. The batch must continue the stored track without a gap.
func (r *SegmentRepo) Insert(ctx context.Context, videoID string, lang model.Language, segs []model.SegmentInput, mode InsertMode) (int64, error) {
	if len(segs) == 0 {
		return 0, nil
	}
	if err := ValidateSegments(segs); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO subtitle_segments (video_id, lang, sequence_num, start_time_ms, end_time_ms,
		                               text, text_normalized, speaker, is_translated, translation_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id, lang, sequence_num) DO `
	if mode == InsertOverwrite {
		query += `UPDATE SET
			text = excluded.text,
			text_normalized = excluded.text_normalized,
			is_translated = excluded.is_translated,
			translation_source = excluded.translation_source`
	} else {
		query += `NOTHING`
	}

	var written int64
	err := db.WithTx(ctx, r.db, func(tx db.Tx) error {
		var maxSeq int
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(sequence_num), 0) FROM subtitle_segments
			WHERE video_id = ? AND lang = ?`, videoID, string(lang)).Scan(&maxSeq)
		if err != nil {
			return err
		}
		if first := segs[0].SequenceNum; first > maxSeq+1 {
			return fmt.Errorf("%w: batch starts at %d but track ends at %d", ErrInvalidSegments, first, maxSeq)
		}

		for _, s := range segs {
			n, err := tx.Exec(ctx, query,
				videoID, string(lang), s.SequenceNum, s.StartTimeMs, s.EndTimeMs,
				s.Text, textnorm.Normalize(s.Text), val(s.Speaker), s.IsTranslated, val(s.TranslationSource),
			)
			if err != nil {
				return fmt.Errorf("insert segment %s/%s#%d: %w", videoID, lang, s.SequenceNum, err)
			}
			written += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// FindByID returns a single segment.
func (r *SegmentRepo) FindByID(ctx context.Context, segmentID int64) (*model.Segment, error) {
	var s model.Segment
	err := scanSegment(r.db.QueryRow(ctx, `SELECT`+segmentColumns+` FROM subtitle_segments WHERE id = ?`, segmentID), &s)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("segment %d", segmentID))
	}
	return &s, nil
}

// ListByVideo returns a track ordered by sequence number.
func (r *SegmentRepo) ListByVideo(ctx context.Context, videoID string, lang model.Language) ([]model.Segment, error) {
	return r.list(ctx, `
		SELECT`+segmentColumns+` FROM subtitle_segments
		WHERE video_id = ? AND lang = ?
		ORDER BY sequence_num ASC`, videoID, string(lang))
}

// Context returns the segment and every segment of the same track whose
// sequence number lies within window of it, ascending. The window is
// clamped to [0, MaxContextWindow].
func (r *SegmentRepo) Context(ctx context.Context, segmentID int64, window int) (*model.Context, error) {
	if window < 0 {
		window = 0
	}
	if window > MaxContextWindow {
		window = MaxContextWindow
	}

	center, err := r.FindByID(ctx, segmentID)
	if err != nil {
		return nil, err
	}

	segs, err := r.list(ctx, `
		SELECT`+segmentColumns+` FROM subtitle_segments
		WHERE video_id = ? AND lang = ? AND sequence_num BETWEEN ? AND ?
		ORDER BY sequence_num ASC`,
		center.VideoID, string(center.Lang), center.SequenceNum-window, center.SequenceNum+window)
	if err != nil {
		return nil, err
	}

	return &model.Context{VideoID: center.VideoID, Center: *center, Segments: segs}, nil
}

// CountByVideo returns the number of segments in a track.
func (r *SegmentRepo) CountByVideo(ctx context.Context, videoID string, lang model.Language) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM subtitle_segments WHERE video_id = ? AND lang = ?`,
		videoID, string(lang)).Scan(&n)
	return n, err
}

func (r *SegmentRepo) list(ctx context.Context, query string, args ...any) ([]model.Segment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	segs := []model.Segment{}
	for rows.Next() {
		var s model.Segment
		if err := scanSegment(rows, &s); err != nil {
			return nil, err
		}
		segs = append(segs, s)
	}
	return segs, rows.Err()
}
