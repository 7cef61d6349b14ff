package model

import "time"

// Search paging bounds.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchFilters narrow a search. Zero values mean "no filter", except Lang
// which defaults to the Korean track.
type SearchFilters struct {
	Category     string   `json:"category,omitempty"`
	ChannelID    string   `json:"channelId,omitempty"`
	SubtitleType string   `json:"subtitleType,omitempty"`
	PersonID     int64    `json:"personId,omitempty"`
	Lang         Language `json:"lang,omitempty"`
}

// IsEmpty reports whether no narrowing filter is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Category == "" && f.ChannelID == "" && f.SubtitleType == "" && f.PersonID == 0
}

// SearchRequest is a search with paging and the optional requesting user.
type SearchRequest struct {
	Query   string
	Filters SearchFilters
	Limit   int
	Offset  int
	UserID  string
}

// SearchHit is a matched segment with denormalized video and channel fields.
type SearchHit struct {
	ID              int64    `json:"id"`
	VideoID         string   `json:"videoId"`
	Lang            Language `json:"lang"`
	SequenceNum     int      `json:"sequenceNum"`
	StartTimeMs     int      `json:"startTimeMs"`
	EndTimeMs       int      `json:"endTimeMs"`
	Text            string   `json:"text"`
	Speaker         *string  `json:"speaker,omitempty"`
	VideoTitle      string   `json:"videoTitle"`
	ThumbnailURL    *string  `json:"thumbnailUrl,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	SubtitleType    *string  `json:"subtitleType,omitempty"`
	SubtitleTier    int      `json:"subtitleTier"`
	ChannelID       string   `json:"channelId"`
	ChannelName     string   `json:"channelName"`
	ChannelCategory *string  `json:"channelCategory,omitempty"`
}

// SearchResponse is the API response for a search. Total is the size of
// this page, not the full match count; HasMore is set when the page is full.
type SearchResponse struct {
	Results  []SearchHit       `json:"results"`
	Total    int               `json:"total"`
	Query    string            `json:"query"`
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"pageSize,omitempty"`
	HasMore  bool              `json:"hasMore"`
	Trending []TrendingKeyword `json:"trending,omitempty"`
}

// TrendingKeyword is an aggregated search term.
type TrendingKeyword struct {
	Keyword     string    `json:"keyword"`
	SearchCount int       `json:"searchCount"`
	TrendScore  float64   `json:"trendScore"`
	Category    *string   `json:"category,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SearchLog is one logged search.
type SearchLog struct {
	UserID          *string
	Query           string
	Normalized      string
	Filters         SearchFilters
	ResultCount     int
	SelectedVideoID *string
}

// ZeroResultQuery is a query that has returned no hits.
type ZeroResultQuery struct {
	Query           string    `json:"query"`
	OccurrenceCount int       `json:"occurrenceCount"`
	LastOccurredAt  time.Time `json:"lastOccurredAt"`
	IsProcessed     bool      `json:"isProcessed"`
}
