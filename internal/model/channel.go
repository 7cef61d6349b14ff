package model

import (
	"slices"
	"time"
)

// Channel categories accepted by the catalog.
var ChannelCategories = []string{"drama", "variety", "music", "education", "news", "entertainment"}

// Subtitle quality labels for a whitelisted channel.
var SubtitleQualities = []string{"official", "community", "mixed"}

// ValidCategory reports whether s is a known channel category.
func ValidCategory(s string) bool { return slices.Contains(ChannelCategories, s) }

// ValidSubtitleQuality reports whether s is a known subtitle quality label.
func ValidSubtitleQuality(s string) bool { return slices.Contains(SubtitleQualities, s) }

// Channel is a whitelisted YouTube channel.
type Channel struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	ThumbnailURL    *string    `json:"thumbnailUrl,omitempty"`
	SubscriberCount *int       `json:"subscriberCount,omitempty"`
	VideoCount      *int       `json:"videoCount,omitempty"`
	Category        *string    `json:"category,omitempty"`
	SubtitleQuality string     `json:"subtitleQuality"`
	CrawlPriority   int        `json:"crawlPriority"`
	IsActive        bool       `json:"isActive"`
	LastCrawledAt   *time.Time `json:"lastCrawledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ChannelSummary is a channel plus the number of videos ingested for it.
type ChannelSummary struct {
	Channel
	IngestedVideos int `json:"ingestedVideos"`
}
