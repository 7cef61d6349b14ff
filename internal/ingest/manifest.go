package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

// Manifest is the subset of a yt-dlp info JSON that ingestion reads.
type Manifest struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Description       string                     `json:"description"`
	Duration          float64                    `json:"duration"`
	Thumbnail         string                     `json:"thumbnail"`
	ChannelID         string                     `json:"channel_id"`
	Channel           string                     `json:"channel"`
	UploadDate        string                     `json:"upload_date"`
	ViewCount         *int64                     `json:"view_count"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// ParseManifest decodes an info JSON document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse info json: %w", err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("parse info json: missing id")
	}
	return &m, nil
}

// Origin reports how a language's captions are offered: uploaded captions
// win over automatic ones.
func (m *Manifest) Origin(lang model.Language) tier.Origin {
	if _, ok := m.Subtitles[string(lang)]; ok {
		return tier.Manual
	}
	if _, ok := m.AutomaticCaptions[string(lang)]; ok {
		return tier.Auto
	}
	return tier.Absent
}

// PublishedAt parses upload_date (YYYYMMDD). Nil when absent or malformed.
func (m *Manifest) PublishedAt() *time.Time {
	if len(m.UploadDate) != 8 {
		return nil
	}
	t, err := time.Parse("20060102", m.UploadDate)
	if err != nil {
		return nil
	}
	return &t
}

// ThumbnailURL falls back to the standard high-quality still.
func (m *Manifest) ThumbnailURL() string {
	if m.Thumbnail != "" {
		return m.Thumbnail
	}
	return "https://i.ytimg.com/vi/" + m.ID + "/hqdefault.jpg"
}

// VideoInput maps the manifest onto a video upsert with the given
// composition.
func (m *Manifest) VideoInput(c tier.Composition) model.VideoInput {
	in := model.VideoInput{
		ID:           m.ID,
		ChannelID:    m.ChannelID,
		Title:        &m.Title,
		PublishedAt:  m.PublishedAt(),
		ViewCount:    m.ViewCount,
		Composition:  &c,
		ThumbnailURL: ptr(m.ThumbnailURL()),
	}
	if m.Description != "" {
		in.Description = &m.Description
	}
	if m.Duration > 0 {
		in.DurationSeconds = ptr(int(m.Duration))
	}
	return in
}

func ptr[T any](v T) *T { return &v }
