package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/search"
)

type SearchRepo struct {
	db db.DB
}

func NewSearchRepo(d db.DB) *SearchRepo {
	return &SearchRepo{db: d}
}

// Search runs a segment search built from the given parameters.
func (r *SearchRepo) Search(ctx context.Context, p search.Params) ([]model.SearchHit, error) {
	query, args := search.Query(r.db.Dialect(), p)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", p.Normalized, err)
	}
	defer rows.Close()

	hits := []model.SearchHit{}
	for rows.Next() {
		var h model.SearchHit
		var lang string
		err := rows.Scan(
			&h.ID, &h.VideoID, &lang, &h.SequenceNum, &h.StartTimeMs, &h.EndTimeMs,
			&h.Text, &h.Speaker, &h.VideoTitle, &h.ThumbnailURL, &h.DurationSeconds,
			&h.SubtitleType, &h.SubtitleTier, &h.ChannelID, &h.ChannelName, &h.ChannelCategory,
		)
		if err != nil {
			return nil, err
		}
		h.Lang = model.Language(lang)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// LogSearch appends a search log and maintains the trending and
// zero-result aggregates in one transaction. Counters are incremented in
// the database so concurrent identical searches never lose an update.
func (r *SearchRepo) LogSearch(ctx context.Context, l model.SearchLog) error {
	var filters any
	if !l.Filters.IsEmpty() {
		b, err := json.Marshal(l.Filters)
		if err != nil {
			return err
		}
		filters = string(b)
	}

	return db.WithTx(ctx, r.db, func(tx db.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO search_logs (user_id, query, query_normalized, filters_json, result_count, selected_video_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			val(l.UserID), l.Query, l.Normalized, filters, l.ResultCount, val(l.SelectedVideoID))
		if err != nil {
			return fmt.Errorf("insert search log: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO trending_keywords (keyword, search_count, updated_at)
			VALUES (?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT (keyword) DO UPDATE SET
				search_count = trending_keywords.search_count + 1,
				updated_at = CURRENT_TIMESTAMP`, l.Normalized)
		if err != nil {
			return fmt.Errorf("bump trending keyword: %w", err)
		}

		if l.ResultCount == 0 {
			_, err = tx.Exec(ctx, `
				INSERT INTO zero_result_queries (query, occurrence_count, last_occurred_at)
				VALUES (?, 1, CURRENT_TIMESTAMP)
				ON CONFLICT (query) DO UPDATE SET
					occurrence_count = zero_result_queries.occurrence_count + 1,
					last_occurred_at = CURRENT_TIMESTAMP`, l.Normalized)
			if err != nil {
				return fmt.Errorf("bump zero-result query: %w", err)
			}
		}
		return nil
	})
}

// Trending returns the most searched keywords.
func (r *SearchRepo) Trending(ctx context.Context, limit int) ([]model.TrendingKeyword, error) {
	rows, err := r.db.Query(ctx, `
		SELECT keyword, search_count, trend_score, category, updated_at
		FROM trending_keywords
		ORDER BY trend_score DESC, search_count DESC, keyword ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keywords := []model.TrendingKeyword{}
	for rows.Next() {
		var k model.TrendingKeyword
		if err := rows.Scan(&k.Keyword, &k.SearchCount, &k.TrendScore, &k.Category, &k.UpdatedAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// RefreshTrendScores sets each keyword's trend score to the number of
// searches for it since the given time. Returns the number of keywords
// touched.
func (r *SearchRepo) RefreshTrendScores(ctx context.Context, since time.Time) (int64, error) {
	return r.db.Exec(ctx, `
		UPDATE trending_keywords SET trend_score = (
			SELECT COUNT(*) FROM search_logs l
			WHERE l.query_normalized = trending_keywords.keyword AND l.created_at >= ?
		)`, since.UTC())
}

// ZeroResults returns the most frequent queries that found nothing and
// have not been processed yet.
func (r *SearchRepo) ZeroResults(ctx context.Context, limit int) ([]model.ZeroResultQuery, error) {
	rows, err := r.db.Query(ctx, `
		SELECT query, occurrence_count, last_occurred_at, is_processed
		FROM zero_result_queries
		WHERE is_processed = ?
		ORDER BY occurrence_count DESC, last_occurred_at DESC
		LIMIT ?`, false, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []model.ZeroResultQuery{}
	for rows.Next() {
		var q model.ZeroResultQuery
		if err := rows.Scan(&q.Query, &q.OccurrenceCount, &q.LastOccurredAt, &q.IsProcessed); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// ZeroResultCount returns the occurrence counter of a normalized query, or
// ErrNotFound when it never came up empty.
func (r *SearchRepo) ZeroResultCount(ctx context.Context, normalized string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT occurrence_count FROM zero_result_queries WHERE query = ?`, normalized).Scan(&n)
	if err != nil {
		return 0, notFound(err, "zero-result query "+normalized)
	}
	return n, nil
}

// MarkProcessed flags a zero-result query as handled.
func (r *SearchRepo) MarkProcessed(ctx context.Context, normalized string) error {
	n, err := r.db.Exec(ctx, `UPDATE zero_result_queries SET is_processed = ? WHERE query = ?`, true, normalized)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("zero-result query %q: %w", normalized, ErrNotFound)
	}
	return nil
}
