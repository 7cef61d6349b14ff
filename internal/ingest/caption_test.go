package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

const sampleJSON3 = `{
  "events": [
    {"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "안녕"}, {"utf8": "하세요"}]},
    {"tStartMs": 1500, "dDurationMs": 100, "segs": [{"utf8": "\n"}]},
    {"tStartMs": 1600},
    {"tStartMs": 2000, "dDurationMs": 1000, "segs": [{"utf8": "  "}, {"utf8": "또"}, {"utf8": " "}, {"utf8": "봐요 "}]},
    {"tStartMs": 3000, "segs": [{"utf8": "끝"}]}
  ]
}`

func TestParseCaptions(t *testing.T) {
	segs, err := ParseCaptions([]byte(sampleJSON3))
	require.NoError(t, err)
	assert.Equal(t, []model.SegmentInput{
		{SequenceNum: 1, StartTimeMs: 0, EndTimeMs: 1500, Text: "안녕하세요"},
		{SequenceNum: 2, StartTimeMs: 2000, EndTimeMs: 3000, Text: "또 봐요"},
		{SequenceNum: 3, StartTimeMs: 3000, EndTimeMs: 3000, Text: "끝"},
	}, segs)
}

func TestParseCaptionsKeepsWordSpacing(t *testing.T) {
	segs, err := ParseCaptions([]byte(`{"events": [
		{"tStartMs": 500, "dDurationMs": 800, "segs": [{"utf8": "눈치"}, {"utf8": " "}, {"utf8": "없이"}]},
		{"tStartMs": 1300, "dDurationMs": 700, "segs": [{"utf8": "진짜"}, {"utf8": "\n"}, {"utf8": " 대박"}]},
		{"tStartMs": 2000, "dDurationMs": 100, "segs": [{"utf8": " "}, {"utf8": "\n"}]}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []model.SegmentInput{
		{SequenceNum: 1, StartTimeMs: 500, EndTimeMs: 1300, Text: "눈치 없이"},
		{SequenceNum: 2, StartTimeMs: 1300, EndTimeMs: 2000, Text: "진짜 대박"},
	}, segs)
}

func TestParseCaptionsEmptyAndMalformed(t *testing.T) {
	segs, err := ParseCaptions([]byte(`{"events": []}`))
	require.NoError(t, err)
	assert.Empty(t, segs)

	_, err = ParseCaptions([]byte(`{"events": [`))
	assert.Error(t, err)
}

func TestManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"id": "abc123", "title": "제목", "duration": 61.7, "channel_id": "UC1",
		"upload_date": "20240315",
		"subtitles": {"ko": []},
		"automatic_captions": {"ko": [], "en": []}
	}`))
	require.NoError(t, err)

	assert.Equal(t, tier.Manual, m.Origin(model.Korean))
	assert.Equal(t, tier.Auto, m.Origin(model.English))
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", m.ThumbnailURL())
	require.NotNil(t, m.PublishedAt())
	assert.Equal(t, "2024-03-15", m.PublishedAt().Format("2006-01-02"))

	in := m.VideoInput(tier.Composition{Korean: tier.Manual})
	assert.Equal(t, 61, *in.DurationSeconds)
	assert.Nil(t, in.Description)
	assert.Equal(t, "제목", *in.Title)
}

func TestManifestRejects(t *testing.T) {
	_, err := ParseManifest([]byte(`{"title": "no id"}`))
	assert.Error(t, err)

	m, err := ParseManifest([]byte(`{"id": "x", "upload_date": "2024"}`))
	require.NoError(t, err)
	assert.Nil(t, m.PublishedAt())
	assert.Equal(t, tier.Absent, m.Origin(model.Korean))
}
