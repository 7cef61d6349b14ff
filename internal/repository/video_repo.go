package repository

import (
	"context"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

type VideoRepo struct {
	db       db.DB
	segments *SegmentRepo
	persons  *PersonRepo
}

func NewVideoRepo(d db.DB) *VideoRepo {
	return &VideoRepo{db: d, segments: NewSegmentRepo(d), persons: NewPersonRepo(d)}
}

const videoColumns = `
	v.id, v.channel_id, v.title, v.description, v.thumbnail_url, v.duration_seconds,
	v.published_at, v.view_count, v.is_available, v.has_korean_subtitle, v.has_english_subtitle,
	v.ko_subtitle_type, v.en_subtitle_type, v.subtitle_tier, v.subtitle_source,
	v.created_at, v.updated_at`

func scanVideo(row db.Row, v *model.Video, extra ...any) error {
	dest := []any{
		&v.ID, &v.ChannelID, &v.Title, &v.Description, &v.ThumbnailURL, &v.DurationSeconds,
		&v.PublishedAt, &v.ViewCount, &v.IsAvailable, &v.HasKoreanSubtitle, &v.HasEnglishSubtitle,
		&v.KoSubtitleType, &v.EnSubtitleType, &v.SubtitleTier, &v.SubtitleSource,
		&v.CreatedAt, &v.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// Upsert inserts a video or updates the fields the caller supplied. Nil
// fields keep their stored value. When the input carries a subtitle
// composition, the presence flags, tier and source are recomputed in the
// same transaction.
func (r *VideoRepo) Upsert(ctx context.Context, in model.VideoInput) error {
	if in.ID == "" || in.ChannelID == "" {
		return fmt.Errorf("upsert video: id and channel id are required")
	}

	return db.WithTx(ctx, r.db, func(tx db.Tx) error {
		inserted, err := tx.Exec(ctx, `
			INSERT INTO videos (id, channel_id, title, description, thumbnail_url, duration_seconds,
			                    published_at, view_count, is_available)
			VALUES (?, ?, COALESCE(?, ''), ?, ?, ?, ?, ?, COALESCE(?, TRUE))
			ON CONFLICT (id) DO NOTHING`,
			in.ID, in.ChannelID, val(in.Title), val(in.Description), val(in.ThumbnailURL),
			val(in.DurationSeconds), utcPtr(in.PublishedAt), val(in.ViewCount), val(in.IsAvailable),
		)
		if err != nil {
			return fmt.Errorf("insert video %s: %w", in.ID, err)
		}

		if inserted == 0 {
			_, err = tx.Exec(ctx, `
				UPDATE videos SET
					channel_id = ?,
					title = COALESCE(?, title),
					description = COALESCE(?, description),
					thumbnail_url = COALESCE(?, thumbnail_url),
					duration_seconds = COALESCE(?, duration_seconds),
					published_at = COALESCE(?, published_at),
					view_count = COALESCE(?, view_count),
					is_available = COALESCE(?, is_available),
					updated_at = CURRENT_TIMESTAMP
				WHERE id = ?`,
				in.ChannelID, val(in.Title), val(in.Description), val(in.ThumbnailURL),
				val(in.DurationSeconds), utcPtr(in.PublishedAt), val(in.ViewCount), val(in.IsAvailable),
				in.ID,
			)
			if err != nil {
				return fmt.Errorf("update video %s: %w", in.ID, err)
			}
		}

		if in.Composition != nil {
			c := *in.Composition
			source := tier.Source(c)
			if in.SubtitleSource != nil {
				source = *in.SubtitleSource
			}
			_, err = tx.Exec(ctx, `
				UPDATE videos SET
					has_korean_subtitle = ?, has_english_subtitle = ?,
					ko_subtitle_type = ?, en_subtitle_type = ?,
					subtitle_tier = ?, subtitle_source = ?,
					updated_at = CURRENT_TIMESTAMP
				WHERE id = ?`,
				c.Korean.Present(), c.English.Present(),
				val(c.Korean.Ptr()), val(c.English.Ptr()),
				int(tier.Classify(c)), source,
				in.ID,
			)
			if err != nil {
				return fmt.Errorf("classify video %s: %w", in.ID, err)
			}
		} else if in.SubtitleSource != nil {
			_, err = tx.Exec(ctx, `UPDATE videos SET subtitle_source = ? WHERE id = ?`, *in.SubtitleSource, in.ID)
			if err != nil {
				return fmt.Errorf("update video %s source: %w", in.ID, err)
			}
		}
		return nil
	})
}

// FindByID returns a single video.
func (r *VideoRepo) FindByID(ctx context.Context, videoID string) (*model.Video, error) {
	var v model.Video
	err := scanVideo(r.db.QueryRow(ctx, `SELECT`+videoColumns+` FROM videos v WHERE v.id = ?`, videoID), &v)
	if err != nil {
		return nil, notFound(err, "video "+videoID)
	}
	return &v, nil
}

// GetWithSegments returns the video joined with its channel's display
// fields, the ordered segment list of the requested track and the people
// linked to it.
func (r *VideoRepo) GetWithSegments(ctx context.Context, videoID string, lang model.Language) (*model.VideoDetail, error) {
	d := &model.VideoDetail{Lang: lang}
	err := scanVideo(r.db.QueryRow(ctx, `
		SELECT`+videoColumns+`, c.name, c.category, c.thumbnail_url
		FROM videos v
		JOIN channels c ON c.id = v.channel_id
		WHERE v.id = ?`, videoID),
		&d.Video, &d.ChannelName, &d.ChannelCategory, &d.ChannelThumbnail)
	if err != nil {
		return nil, notFound(err, "video "+videoID)
	}

	if d.Subtitles, err = r.segments.ListByVideo(ctx, videoID, lang); err != nil {
		return nil, err
	}
	if d.Persons, err = r.persons.ListByVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a video. Segments, cached analyses and person links are
// removed by foreign key cascades.
func (r *VideoRepo) Delete(ctx context.Context, videoID string) error {
	n, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = ?`, videoID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}
	return nil
}

// ListEnglishOnly returns ids of videos that have an English track and no
// Korean track, the candidates for translation.
func (r *VideoRepo) ListEnglishOnly(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM videos
		WHERE has_english_subtitle = ? AND has_korean_subtitle = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?`, true, false, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TierHistogram counts videos per subtitle tier. Every tier is present in
// the result, including empty ones.
func (r *VideoRepo) TierHistogram(ctx context.Context) ([]model.TierCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT subtitle_tier, COUNT(*) FROM videos GROUP BY subtitle_tier`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int, len(tier.All))
	for rows.Next() {
		var t, n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.TierCount, 0, len(tier.All))
	for _, t := range tier.All {
		out = append(out, model.TierCount{Tier: int(t), Videos: counts[int(t)]})
	}
	return out, nil
}
