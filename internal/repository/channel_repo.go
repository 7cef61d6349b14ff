package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
)

type ChannelRepo struct {
	db db.DB
}

func NewChannelRepo(d db.DB) *ChannelRepo {
	return &ChannelRepo{db: d}
}

const channelColumns = `
	c.id, c.name, c.description, c.thumbnail_url, c.subscriber_count, c.video_count,
	c.category, c.subtitle_quality, c.crawl_priority, c.is_active, c.last_crawled_at,
	c.created_at, c.updated_at`

func scanChannel(row db.Row, ch *model.Channel, extra ...any) error {
	dest := []any{
		&ch.ID, &ch.Name, &ch.Description, &ch.ThumbnailURL, &ch.SubscriberCount, &ch.VideoCount,
		&ch.Category, &ch.SubtitleQuality, &ch.CrawlPriority, &ch.IsActive, &ch.LastCrawledAt,
		&ch.CreatedAt, &ch.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// Upsert registers a channel or refreshes its whitelist entry.
func (r *ChannelRepo) Upsert(ctx context.Context, ch *model.Channel) error {
	if ch.SubtitleQuality == "" {
		ch.SubtitleQuality = "official"
	}
	if ch.CrawlPriority == 0 {
		ch.CrawlPriority = 1
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO channels (id, name, description, thumbnail_url, subscriber_count, video_count,
		                      category, subtitle_quality, crawl_priority, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = COALESCE(excluded.description, channels.description),
			thumbnail_url = COALESCE(excluded.thumbnail_url, channels.thumbnail_url),
			subscriber_count = COALESCE(excluded.subscriber_count, channels.subscriber_count),
			video_count = COALESCE(excluded.video_count, channels.video_count),
			category = excluded.category,
			subtitle_quality = excluded.subtitle_quality,
			crawl_priority = excluded.crawl_priority,
			is_active = excluded.is_active,
			updated_at = CURRENT_TIMESTAMP`,
		ch.ID, ch.Name, val(ch.Description), val(ch.ThumbnailURL), val(ch.SubscriberCount), val(ch.VideoCount),
		val(ch.Category), ch.SubtitleQuality, ch.CrawlPriority, ch.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upsert channel %s: %w", ch.ID, err)
	}
	return nil
}

// FindByID returns a single channel.
func (r *ChannelRepo) FindByID(ctx context.Context, channelID string) (*model.Channel, error) {
	var ch model.Channel
	err := scanChannel(r.db.QueryRow(ctx, `SELECT`+channelColumns+` FROM channels c WHERE c.id = ?`, channelID), &ch)
	if err != nil {
		return nil, notFound(err, "channel "+channelID)
	}
	return &ch, nil
}

// List returns channels ordered by crawl priority, with ingested video counts.
func (r *ChannelRepo) List(ctx context.Context, activeOnly bool) ([]model.ChannelSummary, error) {
	query := `SELECT` + channelColumns + `,
		(SELECT COUNT(*) FROM videos v WHERE v.channel_id = c.id)
		FROM channels c`
	var args []any
	if activeOnly {
		query += ` WHERE c.is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY c.crawl_priority DESC, c.name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []model.ChannelSummary{}
	for rows.Next() {
		var s model.ChannelSummary
		if err := scanChannel(rows, &s.Channel, &s.IngestedVideos); err != nil {
			return nil, err
		}
		channels = append(channels, s)
	}
	return channels, rows.Err()
}

// IsWhitelisted reports whether the channel exists and is active.
func (r *ChannelRepo) IsWhitelisted(ctx context.Context, channelID string) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx, `SELECT is_active FROM channels WHERE id = ?`, channelID).Scan(&active)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}

// Deactivate removes a channel from the whitelist without deleting its data.
func (r *ChannelRepo) Deactivate(ctx context.Context, channelID string) error {
	n, err := r.db.Exec(ctx, `
		UPDATE channels SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		false, channelID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	return nil
}

// MarkCrawled records the time of the last ingestion run for a channel.
func (r *ChannelRepo) MarkCrawled(ctx context.Context, channelID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE channels SET last_crawled_at = ? WHERE id = ?`, at.UTC(), channelID)
	return err
}

// Delete hard-deletes a channel. Videos, segments, person links and cached
// analyses go with it through foreign key cascades.
func (r *ChannelRepo) Delete(ctx context.Context, channelID string) error {
	n, err := r.db.Exec(ctx, `DELETE FROM channels WHERE id = ?`, channelID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	return nil
}
