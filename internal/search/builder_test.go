package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
)

func TestBuilderEmpty(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, "", b.Clause())
	assert.Empty(t, b.Args())
	assert.Equal(t, 0, b.Len())
}

func TestBuilderWhereIf(t *testing.T) {
	b := NewBuilder().
		Where("a = ?", 1).
		WhereIf(false, "b = ?", 2).
		WhereIf(true, "c = ?", 3)

	assert.Equal(t, " WHERE a = ? AND c = ?", b.Clause())
	assert.Equal(t, []any{1, 3}, b.Args())
}

// Every subset of the four optional filters must produce a query whose
// placeholder count matches its argument count and which mentions exactly
// the predicates that were set.
func TestQueryFilterPowerSet(t *testing.T) {
	type filter struct {
		name  string
		set   func(*model.SearchFilters)
		token string
	}
	filters := []filter{
		{"category", func(f *model.SearchFilters) { f.Category = "drama" }, "c.category = ?"},
		{"channel", func(f *model.SearchFilters) { f.ChannelID = "UC1" }, "c.id = ?"},
		{"type", func(f *model.SearchFilters) { f.SubtitleType = "manual" }, "v.ko_subtitle_type = ?"},
		{"person", func(f *model.SearchFilters) { f.PersonID = 7 }, "vp.person_id = ?"},
	}

	for mask := 0; mask < 1<<len(filters); mask++ {
		var f model.SearchFilters
		var names []string
		for i, flt := range filters {
			if mask&(1<<i) != 0 {
				flt.set(&f)
				names = append(names, flt.name)
			}
		}

		t.Run("filters="+strings.Join(names, "+"), func(t *testing.T) {
			q, args := Query(db.SQLite, Params{Normalized: "대박", Filters: f, Limit: 20})

			require.Equal(t, strings.Count(q, "?"), len(args))
			// pattern twice, lang, availability
			assert.Len(t, args, 4+len(names))
			for i, flt := range filters {
				assert.Equal(t, mask&(1<<i) != 0, strings.Contains(q, flt.token), flt.name)
			}
		})
	}
}

func TestQueryDialects(t *testing.T) {
	q, _ := Query(db.Postgres, Params{Normalized: "x", Limit: 10, Offset: 30})
	assert.Contains(t, q, "ILIKE")
	assert.Contains(t, q, "LIMIT 10 OFFSET 30")

	q, _ = Query(db.SQLite, Params{Normalized: "x", Limit: 10})
	assert.NotContains(t, q, "ILIKE")
	assert.Contains(t, q, "LIKE")
}

func TestQueryEnglishTrackUsesEnglishType(t *testing.T) {
	q, args := Query(db.SQLite, Params{
		Normalized: "hello",
		Filters:    model.SearchFilters{Lang: model.English, SubtitleType: "auto"},
		Limit:      5,
	})
	assert.Contains(t, q, "v.en_subtitle_type = ?")
	assert.Contains(t, args, "en")
	assert.Equal(t, "%hello%", args[0])
}

func TestQueryOrdering(t *testing.T) {
	q, _ := Query(db.SQLite, Params{Normalized: "x", Limit: 1})
	assert.Contains(t, q, "ORDER BY s.start_time_ms ASC, s.id ASC")
}

func TestClampPaging(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, model.DefaultSearchLimit, 0},
		{-5, -1, model.DefaultSearchLimit, 0},
		{50, 10, 50, 10},
		{500, 0, model.MaxSearchLimit, 0},
	}
	for _, tt := range tests {
		l, o := ClampPaging(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, l)
		assert.Equal(t, tt.wantOffset, o)
	}
}
