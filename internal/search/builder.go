// Package search composes the segment search query from an arbitrary
// subset of filters.
package search

import (
	"strconv"
	"strings"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
)

const hitColumns = `
	s.id, s.video_id, s.lang, s.sequence_num, s.start_time_ms, s.end_time_ms,
	s.text, s.speaker, v.title, v.thumbnail_url, v.duration_seconds,
	%s, v.subtitle_tier, c.id, c.name, c.category`

// Builder accumulates WHERE predicates and their arguments in order.
// Predicates use ? placeholders; the handle rebinds them for its dialect.
type Builder struct {
	preds []string
	args  []any
}

// NewBuilder starts an empty predicate list.
func NewBuilder() *Builder {
	return &Builder{}
}

// Where appends a predicate joined to the others with AND.
func (b *Builder) Where(pred string, args ...any) *Builder {
	b.preds = append(b.preds, pred)
	b.args = append(b.args, args...)
	return b
}

// WhereIf appends the predicate only when cond holds.
func (b *Builder) WhereIf(cond bool, pred string, args ...any) *Builder {
	if cond {
		return b.Where(pred, args...)
	}
	return b
}

// Clause renders " WHERE a AND b ..." or "" when no predicate was added.
func (b *Builder) Clause() string {
	if len(b.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.preds, " AND ")
}

// Args returns the accumulated arguments in predicate order.
func (b *Builder) Args() []any {
	return b.args
}

// Len is the number of predicates added so far.
func (b *Builder) Len() int {
	return len(b.preds)
}

// Params is a normalized search: the match pattern, the filters and paging.
type Params struct {
	Normalized string
	Filters    model.SearchFilters
	Limit      int
	Offset     int
}

// Query builds the segment search statement. Every filter is optional and
// applied only when set; hits are ordered by in-video start time, then by
// insertion order.
func Query(d db.Dialect, p Params) (string, []any) {
	lang := p.Filters.Lang
	if lang == "" {
		lang = model.Korean
	}
	typeColumn := "v.ko_subtitle_type"
	if lang == model.English {
		typeColumn = "v.en_subtitle_type"
	}

	pattern := "%" + p.Normalized + "%"
	like := d.ILike()

	b := NewBuilder().
		Where("(s.text "+like+" ? OR s.text_normalized "+like+" ?)", pattern, pattern).
		Where("s.lang = ?", string(lang)).
		Where("v.is_available = ?", true).
		WhereIf(p.Filters.Category != "", "c.category = ?", p.Filters.Category).
		WhereIf(p.Filters.ChannelID != "", "c.id = ?", p.Filters.ChannelID).
		WhereIf(p.Filters.SubtitleType != "", typeColumn+" = ?", p.Filters.SubtitleType).
		WhereIf(p.Filters.PersonID != 0,
			"EXISTS (SELECT 1 FROM video_persons vp WHERE vp.video_id = v.id AND vp.person_id = ?)",
			p.Filters.PersonID)

	var q strings.Builder
	q.WriteString("SELECT")
	q.WriteString(strings.Replace(hitColumns, "%s", typeColumn, 1))
	q.WriteString(`
	FROM subtitle_segments s
	JOIN videos v ON v.id = s.video_id
	JOIN channels c ON c.id = v.channel_id`)
	q.WriteString(b.Clause())
	q.WriteString(" ORDER BY s.start_time_ms ASC, s.id ASC LIMIT ")
	q.WriteString(strconv.Itoa(p.Limit))
	q.WriteString(" OFFSET ")
	q.WriteString(strconv.Itoa(p.Offset))

	return q.String(), b.Args()
}

// ClampPaging applies the default and maximum page size and rejects
// negative offsets by clamping them to zero.
func ClampPaging(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}
	if limit > model.MaxSearchLimit {
		limit = model.MaxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
