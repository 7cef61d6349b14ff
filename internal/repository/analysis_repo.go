package repository

import (
	"context"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
)

type AnalysisRepo struct {
	db db.DB
}

func NewAnalysisRepo(d db.DB) *AnalysisRepo {
	return &AnalysisRepo{db: d}
}

// Get returns the cached analysis for a segment and context fingerprint.
func (r *AnalysisRepo) Get(ctx context.Context, segmentID int64, contextHash string) (*model.AnalysisEntry, error) {
	var e model.AnalysisEntry
	err := r.db.QueryRow(ctx, `
		SELECT id, subtitle_id, context_hash, analysis_json, model_used, token_count, created_at
		FROM ai_analysis_cache
		WHERE subtitle_id = ? AND context_hash = ?`, segmentID, contextHash,
	).Scan(&e.ID, &e.SegmentID, &e.ContextHash, &e.AnalysisJSON, &e.ModelUsed, &e.TokenCount, &e.CreatedAt)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("analysis %d/%s", segmentID, contextHash))
	}
	return &e, nil
}

// Put stores an analysis, replacing the payload, model and cost of an
// existing entry with the same key and refreshing its timestamp.
func (r *AnalysisRepo) Put(ctx context.Context, e *model.AnalysisEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ai_analysis_cache (subtitle_id, context_hash, analysis_json, model_used, token_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (subtitle_id, context_hash) DO UPDATE SET
			analysis_json = excluded.analysis_json,
			model_used = excluded.model_used,
			token_count = excluded.token_count,
			created_at = CURRENT_TIMESTAMP`,
		e.SegmentID, e.ContextHash, string(e.AnalysisJSON), e.ModelUsed, e.TokenCount,
	)
	if err != nil {
		return fmt.Errorf("put analysis %d/%s: %w", e.SegmentID, e.ContextHash, err)
	}
	return nil
}

// Count returns the number of cached analyses.
func (r *AnalysisRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ai_analysis_cache`).Scan(&n)
	return n, err
}
