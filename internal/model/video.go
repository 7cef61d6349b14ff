package model

import (
	"time"

	"github.com/chabro2633/diary-korean/internal/tier"
)

// Video is an ingested video with its subtitle composition.
type Video struct {
	ID                 string     `json:"id"`
	ChannelID          string     `json:"channelId"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	ThumbnailURL       *string    `json:"thumbnailUrl,omitempty"`
	DurationSeconds    *int       `json:"durationSeconds,omitempty"`
	PublishedAt        *time.Time `json:"publishedAt,omitempty"`
	ViewCount          *int64     `json:"viewCount,omitempty"`
	IsAvailable        bool       `json:"isAvailable"`
	HasKoreanSubtitle  bool       `json:"hasKoreanSubtitle"`
	HasEnglishSubtitle bool       `json:"hasEnglishSubtitle"`
	KoSubtitleType     *string    `json:"koSubtitleType,omitempty"`
	EnSubtitleType     *string    `json:"enSubtitleType,omitempty"`
	SubtitleTier       int        `json:"subtitleTier"`
	SubtitleSource     string     `json:"subtitleSource"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Composition returns the video's stored subtitle composition.
func (v *Video) Composition() tier.Composition {
	var c tier.Composition
	if v.KoSubtitleType != nil {
		c.Korean = tier.Origin(*v.KoSubtitleType)
	}
	if v.EnSubtitleType != nil {
		c.English = tier.Origin(*v.EnSubtitleType)
	}
	return c
}

// VideoInput is an upsert request. Nil fields are left untouched on an
// existing row. When Composition is set, presence flags, tier and source
// are recomputed from it; SubtitleSource overrides the derived source.
type VideoInput struct {
	ID              string
	ChannelID       string
	Title           *string
	Description     *string
	ThumbnailURL    *string
	DurationSeconds *int
	PublishedAt     *time.Time
	ViewCount       *int64
	IsAvailable     *bool
	Composition     *tier.Composition
	SubtitleSource  *string
}

// VideoDetail is a video joined with its channel's display fields and one
// ordered subtitle track.
type VideoDetail struct {
	Video
	ChannelName      string    `json:"channelName"`
	ChannelCategory  *string   `json:"channelCategory,omitempty"`
	ChannelThumbnail *string   `json:"channelThumbnail,omitempty"`
	Lang             Language  `json:"lang"`
	Subtitles        []Segment `json:"subtitles"`
	Persons          []Person  `json:"persons"`
	Context          *Context  `json:"context"`
}

// TierCount is one row of the tier histogram.
type TierCount struct {
	Tier   int `json:"tier"`
	Videos int `json:"videos"`
}
