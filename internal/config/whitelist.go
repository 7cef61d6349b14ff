package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/chabro2633/diary-korean/internal/model"
)

// WhitelistEntry is one [[channels]] table of a whitelist file.
type WhitelistEntry struct {
	ID              string `toml:"id"`
	Name            string `toml:"name"`
	Description     string `toml:"description"`
	ThumbnailURL    string `toml:"thumbnail_url"`
	Category        string `toml:"category"`
	SubtitleQuality string `toml:"subtitle_quality"`
	CrawlPriority   int    `toml:"crawl_priority"`
	Active          *bool  `toml:"active"`
}

type whitelistFile struct {
	Channels []WhitelistEntry `toml:"channels"`
}

// LoadWhitelist reads and validates a channel whitelist file.
func LoadWhitelist(path string) ([]model.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return ParseWhitelist(data)
}

// ParseWhitelist decodes whitelist TOML into channels. Entries need an id,
// a name and a known category; quality defaults to official and priority
// to 1.
func ParseWhitelist(data []byte) ([]model.Channel, error) {
	var f whitelistFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse whitelist: %w", err)
	}

	seen := make(map[string]bool, len(f.Channels))
	channels := make([]model.Channel, 0, len(f.Channels))
	for i, e := range f.Channels {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("whitelist entry %d: id and name are required", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("whitelist entry %d: duplicate channel %s", i+1, e.ID)
		}
		seen[e.ID] = true
		if !model.ValidCategory(e.Category) {
			return nil, fmt.Errorf("whitelist entry %s: unknown category %q", e.ID, e.Category)
		}

		ch := model.Channel{
			ID:              e.ID,
			Name:            e.Name,
			Category:        &e.Category,
			SubtitleQuality: e.SubtitleQuality,
			CrawlPriority:   e.CrawlPriority,
			IsActive:        e.Active == nil || *e.Active,
		}
		if ch.SubtitleQuality == "" {
			ch.SubtitleQuality = "official"
		}
		if !model.ValidSubtitleQuality(ch.SubtitleQuality) {
			return nil, fmt.Errorf("whitelist entry %s: unknown subtitle quality %q", e.ID, ch.SubtitleQuality)
		}
		if ch.CrawlPriority == 0 {
			ch.CrawlPriority = 1
		}
		if e.Description != "" {
			ch.Description = &e.Description
		}
		if e.ThumbnailURL != "" {
			ch.ThumbnailURL = &e.ThumbnailURL
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
